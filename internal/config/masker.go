package config

import (
	"reflect"

	"go.uber.org/zap"
)

// LogMasked escreve a configuração no log com os campos `masked:"true"` mascarados.
func (c *Config) LogMasked(logger *zap.Logger) {
	v := reflect.ValueOf(c).Elem()
	logger.Info("config", zap.Any("config", maskStructFields(v, v.Type())))
}

func maskStructFields(v reflect.Value, t reflect.Type) map[string]interface{} {
	result := make(map[string]interface{})
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		switch field.Kind() {
		case reflect.Struct:
			result[fieldType.Name] = maskStructFields(field, field.Type())

		case reflect.String:
			if fieldType.Tag.Get("masked") == "true" {
				result[fieldType.Name] = maskSensitiveData(field.String())
			} else {
				result[fieldType.Name] = field.String()
			}

		default:
			result[fieldType.Name] = field.Interface()
		}
	}
	return result
}

// primeiro e último caractere, o resto vira ****
func maskSensitiveData(data string) string {
	if len(data) <= 2 {
		return "****"
	}
	return string(data[0]) + "****" + string(data[len(data)-1])
}
