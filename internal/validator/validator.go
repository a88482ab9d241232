package validator

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// EchoValidatorはEchoのc.Validate()にvalidator/v10を繋ぐ。
// リクエスト構造体のvalidateタグは境界で一度だけ検証し、
// usecaseには検証済みの値だけを渡す。
type EchoValidator struct {
	v *validator.Validate
}

func NewEchoValidator() *EchoValidator {
	return &EchoValidator{v: validator.New()}
}

func (ev *EchoValidator) Validate(i interface{}) error {
	if err := ev.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}
	return nil
}
