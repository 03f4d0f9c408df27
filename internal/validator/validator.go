// Package validator wires custom validation into Gin's binding engine.
package validator

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Teach the engine to see decimal.Decimal as a float64 so numeric
		// tags like `min=0` apply to price fields.
		v.RegisterCustomTypeFunc(decimalToFloat, decimal.Decimal{})
	}
}

func decimalToFloat(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
