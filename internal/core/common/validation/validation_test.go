package validation_test

import (
	"regexp"
	"testing"

	errors "github.com/frahmantamala/ecommerce-backend/internal"
	"github.com/frahmantamala/ecommerce-backend/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

func fieldErrors(appErr *errors.AppError) []errors.ValidationError {
	Expect(appErr).NotTo(BeNil())
	details, ok := appErr.Details.(errors.ValidationErrors)
	Expect(ok).To(BeTrue())
	return details.Errors
}

var _ = Describe("ValidationBuilder", func() {
	It("passes when every rule holds", func() {
		v := validation.NewValidator()
		v.Field("pin", "1234").Required().LengthBetween(4, 6, "bad pin", errors.ErrCodeInvalidPin)
		v.Field("amount", decimal.RequireFromString("10.50")).PositiveDecimal(errors.ErrCodeInvalidAmount)
		Expect(v.Validate()).To(BeNil())
	})

	It("reports only the first failure per field", func() {
		v := validation.NewValidator()
		v.Field("mobile_number", "").
			Required().
			Pattern(regexp.MustCompile(`^01\d{9}$`), "bad mobile", errors.ErrCodeInvalidMobile)

		errs := fieldErrors(v.Validate())
		Expect(errs).To(HaveLen(1))
		Expect(errs[0].Field).To(Equal("mobile_number"))
		Expect(errs[0].Message).To(Equal("This field is required."))
	})

	It("collects failures across fields", func() {
		v := validation.NewValidator()
		v.Field("card_type", "discover").OneOf([]string{"visa", "mastercard", "amex"}, errors.ErrCodeInvalidChoice)
		v.Field("cvv", "12").LengthBetween(3, 4, "bad cvv", errors.ErrCodeInvalidCVV)

		appErr := v.Validate()
		Expect(appErr.StatusCode).To(Equal(400))
		errs := fieldErrors(appErr)
		Expect(errs).To(HaveLen(2))
		Expect(errs[0].Code).To(Equal(string(errors.ErrCodeInvalidChoice)))
		Expect(errs[1].Message).To(Equal("bad cvv"))
	})

	It("rejects zero and negative decimals", func() {
		zero := decimal.Zero
		v := validation.NewValidator()
		v.Field("amount", &zero).Required().PositiveDecimal(errors.ErrCodeInvalidAmount)
		v.Field("refund", decimal.NewFromInt(-1)).PositiveDecimal(errors.ErrCodeInvalidAmount)

		errs := fieldErrors(v.Validate())
		Expect(errs).To(HaveLen(2))
	})

	It("treats a nil decimal pointer as missing", func() {
		var amount *decimal.Decimal
		v := validation.NewValidator()
		v.Field("amount", amount).Required()

		errs := fieldErrors(v.Validate())
		Expect(errs[0].Field).To(Equal("amount"))
	})

	It("runs custom rules", func() {
		v := validation.NewValidator()
		v.Field("expiry_date", "13/25").Custom(func(interface{}) *errors.AppError {
			return errors.NewValidationFieldError("expiry_date", "Invalid month", errors.ErrCodeInvalidExpiry)
		})

		errs := fieldErrors(v.Validate())
		Expect(errs[0].Message).To(Equal("Invalid month"))
	})

	It("limits decimal places", func() {
		ok := decimal.RequireFromString("150.00")
		tooFine := decimal.RequireFromString("150.001")
		v := validation.NewValidator()
		v.Field("amount", &ok).MaxDecimalPlaces(2, errors.ErrCodeInvalidAmount)
		v.Field("refund_amount", tooFine).MaxDecimalPlaces(2, errors.ErrCodeInvalidAmount)

		errs := fieldErrors(v.Validate())
		Expect(errs).To(HaveLen(1))
		Expect(errs[0].Field).To(Equal("refund_amount"))
		Expect(errs[0].Message).To(Equal("Ensure that there are no more than 2 decimal places."))
	})
})
