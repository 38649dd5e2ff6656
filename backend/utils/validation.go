package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/questforge/onboard-quest/backend/models"
	"github.com/questforge/onboard-quest/onboardquest/services"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	notBlankTag  = "notblank"
	notBlankText = "this field cannot be blank"

	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	// bcrypt only hashes the first 72 bytes
	pwdMaxBytes     = 72
	pwdMaxBytesTag  = "pwdmaxbytes"
	pwdMaxBytesText = fmt.Sprintf("password must be at most %d bytes", pwdMaxBytes)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to your username, name or email"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	Validate.RegisterStructValidation(registerStructValidation, models.RegisterRequest{})

	registerCustomTranslation(notBlankTag, notBlankText)
	registerCustomTranslation(pwdMinLenTag, pwdMinLenText)
	registerCustomTranslation(pwdMaxBytesTag, pwdMaxBytesText)
	registerCustomTranslation(pwdNoSpaceTag, pwdNoSpaceText)
	registerCustomTranslation(pwdNotAllNumTag, pwdNotAllNumText)
	registerCustomTranslation(pwdAttrSimTag, pwdAttrSimText)
}

// registerCustomTranslation registers a fixed message for a custom tag. The
// register func is a noop because the default translations already own the
// translator.
func registerCustomTranslation(tag, text string) {
	registerFn := func(ut.Translator) error { return nil }
	translateFn := func(ut.Translator, validator.FieldError) string { return text }
	_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateFn)
}

func notBlankValidation(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}

func registerStructValidation(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(models.RegisterRequest)
	if !ok || req.Password == "" {
		return
	}
	if tag := passwordPolicy(req.Password, req.Username, req.Name, req.Email); tag != "" {
		sl.ReportError(req.Password, "password", "Password", tag, "")
	}
}

// passwordPolicy returns the tag of the first rule pwd breaks, or "".
func passwordPolicy(pwd string, attrs ...string) string {
	if len([]rune(pwd)) < pwdMinLen {
		return pwdMinLenTag
	}
	if len(pwd) > pwdMaxBytes {
		return pwdMaxBytesTag
	}

	digits := 0
	for _, r := range pwd {
		if unicode.IsSpace(r) {
			return pwdNoSpaceTag
		}
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits == len([]rune(pwd)) {
		return pwdNotAllNumTag
	}

	lower := strings.ToLower(pwd)
	for _, attr := range attrs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if attr == "" {
			continue
		}
		ratio := difflib.NewMatcher(strings.Split(lower, ""), strings.Split(attr, "")).QuickRatio()
		if ratio >= pwdMaxSim {
			return pwdAttrSimTag
		}
	}
	return ""
}

// ValidateStruct runs the validator and converts field errors into a
// services.ValidationError keyed by JSON field name.
func ValidateStruct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fe.Field()
		if _, exists := fields[name]; exists {
			continue
		}
		fields[name] = fe.Translate(Translator)
	}
	return &services.ValidationError{Fields: fields}
}

// ParseBody decodes the request body into dst and validates it.
func ParseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return services.NewValidationError("body", "malformed request body")
	}
	return ValidateStruct(dst)
}

// ValidateUploadFile checks an optional multipart file against the size
// limit.
func ValidateUploadFile(field string, fh *multipart.FileHeader, maxSize int64) error {
	if fh == nil {
		return nil
	}
	if fh.Size == 0 {
		return services.NewValidationError(field, "file is empty")
	}
	if maxSize > 0 && fh.Size > maxSize {
		return services.NewValidationError(field, fmt.Sprintf("file exceeds %d MB", maxSize/(1024*1024)))
	}
	return nil
}

// SanitizeFilename strips any directory components from a client filename.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	if idx := strings.LastIndex(filename, "/"); idx >= 0 {
		filename = filename[idx+1:]
	}
	return strings.TrimSpace(filename)
}
