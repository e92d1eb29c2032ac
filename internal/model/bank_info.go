package model

// BankInfo is the club's payment details shown on invoices so guests can
// transfer the total.  The table holds a single row.
type BankInfo struct {
	ID            uint64  `json:"id"`                   // bank_info.id
	BankName      string  `json:"bankName"`             // bank_info.bank_name
	AccountName   string  `json:"accountName"`          // bank_info.account_name
	AccountNumber string  `json:"accountNumber"`        // bank_info.account_number
	QRImageURL    *string `json:"qrImageUrl,omitempty"` // bank_info.qr_image_url (nullable)
}
