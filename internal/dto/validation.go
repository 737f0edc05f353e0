package dto

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators 向 gin 绑定器注册自定义校验规则：
//   - datekey:  yyyy-MM-dd
//   - usertype: STUDENT / TEACHER / STAFF（忽略大小写）
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("datekey", validateDateKey); err != nil {
		return err
	}
	return v.RegisterValidation("usertype", validateUserType)
}

func validateDateKey(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func validateUserType(fl validator.FieldLevel) bool {
	switch strings.ToUpper(fl.Field().String()) {
	case "STUDENT", "TEACHER", "STAFF":
		return true
	default:
		return false
	}
}
