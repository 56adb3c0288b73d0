package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/raffle-manager/internal/service"
)

// storeTimeout bounds every store round trip made by a handler.
const storeTimeout = 5 * time.Second

// DefaultGenerateTimeout bounds ticket generation, which runs one insert
// per thousand tickets.
const DefaultGenerateTimeout = 60 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), storeTimeout)
}

// respondError maps the service error taxonomy onto HTTP. Anything outside
// it is logged and reported as "<action> failed".
func respondError(c echo.Context, action string, err error) error {
	var (
		verr *service.ValidationError
		nf   *service.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error()})
	case errors.As(err, &nf):
		return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Error()})
	case errors.Is(err, service.ErrNoEligibleTickets):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	zap.L().Error(action+" failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": action + " failed"})
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &service.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}

var jsonNull = []byte("null")

// optBool is a JSON boolean that remembers whether it was present. Besides
// true/false it accepts numbers (0 is false) and the strings "0", "1",
// "true" and "false". null counts as absent.
type optBool struct {
	Set   bool
	Value bool
}

func (b *optBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		b.Value = t
	case float64:
		b.Value = t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true":
			b.Value = true
		case "0", "false":
			b.Value = false
		default:
			return fmt.Errorf("invalid boolean %q", t)
		}
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	b.Set = true
	return nil
}

// Ptr returns nil when the field was absent.
func (b optBool) Ptr() *bool {
	if !b.Set {
		return nil
	}
	v := b.Value
	return &v
}

// optString is a trimmed JSON string that remembers whether it was present.
// null is read as "", which clears the column.
type optString struct {
	Set   bool
	Value string
}

func (s *optString) UnmarshalJSON(data []byte) error {
	s.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		s.Value = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.Value = strings.TrimSpace(v)
	return nil
}

// Ptr returns nil when the field was absent.
func (s optString) Ptr() *string {
	if !s.Set {
		return nil
	}
	v := s.Value
	return &v
}

// moneyInput accepts a price as a string ("5,00") or a JSON number (5.5).
// null and absence both read as "".
type moneyInput string

func (m *moneyInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, jsonNull):
		*m = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = moneyInput(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*m = moneyInput(n.String())
	}
	return nil
}

// intField reads an integer sent as a JSON number or numeric string.
// Absent or null yields 0. Fractional, non-finite or non-numeric values
// are a validation error.
func intField(field string, raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return 0, nil
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, &service.ValidationError{Field: field, Message: "must be an integer"}
		}
		text = strings.TrimSpace(text)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, &service.ValidationError{Field: field, Message: "must be an integer"}
	}
	return int(f), nil
}
