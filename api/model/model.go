package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

// UploadForm carries the non-file fields of a table upload.
type UploadForm struct {
	Side              string `form:"side"`
	IDColumn          string `form:"id_column"`
	DescriptionColumn string `form:"description_column"`
	AmountColumn      string `form:"amount_column"`
}

func (u UploadForm) ValidateUploadForm() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Side, validation.Required, validation.In(model.SideInvoice, model.SidePayment)),
		validation.Field(&u.DescriptionColumn, validation.Required),
		validation.Field(&u.AmountColumn, validation.Required),
	)
}

// ColumnSpec converts the form fields into the engine's column spec.
func (u UploadForm) ColumnSpec() model.ColumnSpec {
	return model.ColumnSpec{
		ID:          u.IDColumn,
		Description: u.DescriptionColumn,
		Amount:      u.AmountColumn,
	}
}

// CreateReconciliationRequest starts a run over two prior uploads. The matcher
// block is optional; omitted fields fall back to the configured defaults.
type CreateReconciliationRequest struct {
	InvoiceUploadID string               `json:"invoice_upload_id"`
	PaymentUploadID string               `json:"payment_upload_id"`
	DryRun          bool                 `json:"dry_run"`
	Matcher         *model.MatcherConfig `json:"matcher,omitempty"`
}

func (r CreateReconciliationRequest) ValidateCreateReconciliationRequest() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InvoiceUploadID, validation.Required),
		validation.Field(&r.PaymentUploadID, validation.Required),
	)
}
