package order

type Status string

const (
	// StatusNew is the only status the storefront assigns. Later states are
	// set by the shop owner in the record-keeping sheet.
	StatusNew Status = "New"
)
