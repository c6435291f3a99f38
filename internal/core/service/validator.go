package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
)

var validate = validator.New()

// formMessages maps a validator tag to the localized message shown for it.
// The "" entry is the fallback for tags without their own text.
type formMessages map[string]string

var (
	loginMessages = formMessages{
		"":         "الرجاء إدخال البريد الإلكتروني وكلمة المرور",
		"required": "الرجاء إدخال البريد الإلكتروني وكلمة المرور",
	}
	registerMessages = formMessages{
		"":         "الرجاء ملء جميع الحقول المطلوبة",
		"required": "الرجاء ملء جميع الحقول المطلوبة",
		"min":      "كلمة المرور يجب أن تكون 6 أحرف على الأقل",
		"oneof":    "الرجاء اختيار الدور الوظيفي",
	}
	patientMessages = formMessages{
		"":         "الرجاء التحقق من البيانات المدخلة",
		"required": "الرجاء إدخال الاسم ورقم الهاتف على الأقل",
		"email":    "البريد الإلكتروني غير صالح",
		"datetime": "تاريخ الميلاد غير صالح",
	}
)

// validateInput checks in against its struct tags and returns a
// *domain.ValidationError. Missing required fields take precedence over
// other failures so the user fixes empty fields first.
func validateInput(in any, msgs formMessages) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return &domain.ValidationError{Message: msgs[""]}
	}

	fe := ve[0]
	for _, candidate := range ve {
		if candidate.Tag() == "required" {
			fe = candidate
			break
		}
	}
	return &domain.ValidationError{Field: fe.Field(), Message: fieldMessage(fe, msgs)}
}

func fieldMessage(fe validator.FieldError, msgs formMessages) string {
	if msg, ok := msgs[fe.Tag()]; ok {
		return msg
	}
	return msgs[""]
}
