package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"efi_checklist/internal/model"
)

// MaxBodyBytes caps request bodies. Photos travel as data URIs.
const MaxBodyBytes = 20 << 20

// DecodeJSONBody はリクエストボディをデコードします。未知のフィールドは拒否します。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	return decode(r, dst, true)
}

// DecodeAndValidate decodes the body into dst and validates it.
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := DecodeJSONBody(r, dst); err != nil {
		return err
	}
	return ValidateStruct(dst)
}

// DecodeLenientAndValidate は未知のフィールドを無視します。
// 公開エンドポイントはブラウザのスナップショットをそのまま受け取るためです。
func DecodeLenientAndValidate(r *http.Request, dst interface{}) error {
	if err := decode(r, dst, false); err != nil {
		return err
	}
	return ValidateStruct(dst)
}

func decode(r *http.Request, dst interface{}, strict bool) error {
	if r.Body == nil || r.Body == http.NoBody {
		return model.NewAppError("EMPTY_BODY", "El cuerpo de la solicitud es obligatorio.", "", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if strict {
		decoder.DisallowUnknownFields()
	}

	if err := decoder.Decode(dst); err != nil {
		slog.Default().Debug("Error decoding JSON body", "error", err)
		if errors.Is(err, io.EOF) {
			return model.NewAppError("EMPTY_BODY", "El cuerpo de la solicitud es obligatorio.", "", model.ErrInvalidInput)
		}
		return model.NewAppError("INVALID_JSON", "JSON inválido.", "", fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
	}
	return nil
}
