package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrUserExists         = errors.New("user already registered")
	ErrAccountCreation    = errors.New("account creation failed")
	ErrRoleAssignment     = errors.New("role assignment failed")
	ErrDuplicatePatient   = errors.New("patient with this phone already exists")
	ErrPatientNotFound    = errors.New("patient not found")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
)

var messages = map[error]string{
	ErrInvalidCredentials: "بيانات الدخول غير صحيحة",
	ErrUserExists:         "المستخدم مسجل مسبقاً",
	ErrAccountCreation:    "فشل إنشاء الحساب",
	ErrRoleAssignment:     "فشل تعيين الدور",
	ErrDuplicatePatient:   "مريض بنفس رقم الهاتف موجود بالفعل",
	ErrPatientNotFound:    "لم يتم العثور على المريض",
	ErrUnauthenticated:    "الرجاء تسجيل الدخول",
	ErrForbidden:          "ليس لديك صلاحية لهذا الإجراء",
}

// ValidationError is a local, pre-call input failure. Message is already localized.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RemoteError is satisfied by gateway errors so services can inspect the raw
// message without importing the transport.
type RemoteError interface {
	error
	RemoteMessage() string
}

// Message returns the localized text for err. Validation errors and remote
// errors carry their own text; known sentinels use the table above; anything
// else yields fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	var re RemoteError
	if errors.As(err, &re) && re.RemoteMessage() != "" {
		return re.RemoteMessage()
	}
	return fallback
}
