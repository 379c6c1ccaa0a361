package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, types.SuccessEnvelope{Success: true, Data: data})
}

// WriteMessage writes a success envelope that carries only a message.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, types.SuccessEnvelope{Success: true, Message: message})
}

// WritePage writes one page of a list with its count and pagination block.
func WritePage(w http.ResponseWriter, data any, count int, meta pagination.Meta) {
	WriteJSON(w, http.StatusOK, types.SuccessEnvelope{
		Success:    true,
		Count:      &count,
		Data:       data,
		Pagination: &meta,
	})
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	payload := types.ErrorEnvelope{
		Message: typed.PublicMessage(),
		Error:   types.APIError{Code: string(typed.Code())},
	}
	if meta.DetailsAllowed {
		payload.Error.Details = typed.Details()
	}

	if logg != nil && meta.HTTPStatus >= http.StatusInternalServerError {
		dump := pkgerrors.Dump(err)
		ctx = logg.WithFields(ctx, map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PG.Code,
			"pg_detail":     dump.PG.Detail,
			"pg_constraint": dump.PG.Constraint,
		})
		logg.Error(ctx, "request.error", err)
	} else if logg != nil {
		logg.Debug(logg.WithField(ctx, "error_code", string(typed.Code())), "request.rejected")
	}

	WriteJSON(w, meta.HTTPStatus, payload)
}

// WriteJSON writes payload as-is, without an envelope.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
