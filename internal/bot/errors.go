package bot

import (
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeConfiguration = "CONFIGURATION_ERROR"
	TextCodeLookup        = "LOOKUP_FAILED"
	TextCodeDelivery      = "DELIVERY_FAILED"
)

func botError(
	message string,
	category goerrors.Category,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func botWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	textCode string,
) error {
	if source == nil {
		return botError(message, category, code, textCode, nil)
	}
	return goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(textCode)
}

// configurationError reports missing credentials or reply targets. The
// metadata is echoed to the webhook caller as a debug payload.
func configurationError(metadata map[string]any) error {
	return botError(
		"Missing CHATWOOT_API_TOKEN or conversation/account id in payload",
		goerrors.CategoryBadInput,
		http.StatusBadRequest,
		TextCodeConfiguration,
		metadata,
	)
}

// lookupError is logged and rendered into the chat reply, never returned
// to the webhook caller.
func lookupError(source error) error {
	return botWrapError(
		source,
		goerrors.CategoryExternal,
		fmt.Sprintf("task lookup failed: %v", source),
		http.StatusBadGateway,
		TextCodeLookup,
	)
}

func deliveryError(source error) error {
	return botWrapError(
		source,
		goerrors.CategoryExternal,
		source.Error(),
		http.StatusInternalServerError,
		TextCodeDelivery,
	)
}
