package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-insumos/internal/domain"
	"github.com/jhoicas/Inventario-insumos/internal/domain/inventory"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// decimal.Decimal se valida como float64 para poder usar gt/gte/lte en los tags.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(jsonName)
	return v
}

// Validate aplica los tags validate del struct y rechaza decimales con más de
// inventory.QuantityScale cifras decimales. Los errores envuelven domain.ErrInvalidInput
// e indican el primer campo inválido.
func Validate(in any) error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: campo %s no cumple %s", domain.ErrInvalidInput, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if field := excessScale(reflect.ValueOf(in), ""); field != "" {
		return fmt.Errorf("%w: campo %s admite máximo %d decimales", domain.ErrInvalidInput, field, inventory.QuantityScale)
	}
	return nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// excessScale recorre structs, punteros y slices y devuelve la ruta del primer decimal
// que no cabe en NUMERIC(14,4). Los tags validate trabajan sobre float64 y no lo detectan.
func excessScale(v reflect.Value, path string) string {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return ""
		}
		return excessScale(v.Elem(), path)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if f := excessScale(v.Index(i), fmt.Sprintf("%s[%d]", path, i)); f != "" {
				return f
			}
		}
	case reflect.Struct:
		if v.Type() == decimalType {
			d := v.Interface().(decimal.Decimal)
			if !d.Equal(d.Round(inventory.QuantityScale)) {
				return path
			}
			return ""
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			name := jsonName(sf)
			if path != "" {
				name = path + "." + name
			}
			if f := excessScale(v.Field(i), name); f != "" {
				return f
			}
		}
	}
	return ""
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}
