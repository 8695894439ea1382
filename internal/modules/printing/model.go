package printing

// Status is the lifecycle state of a print order. It only ever moves forward:
// pending → printed → delivered.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPrinted   Status = "printed"
	StatusDelivered Status = "delivered"
)

// PaperSize selects the sheet format.
type PaperSize string

const (
	PaperA4 PaperSize = "A4"
	PaperA5 PaperSize = "A5"
)

// ColorType selects monochrome or full-colour output.
type ColorType string

const (
	BlackAndWhite ColorType = "black_white"
	FullColor     ColorType = "color"
)

// Sides selects single- or double-sided printing.
type Sides string

const (
	SingleSided Sides = "single"
	DoubleSided Sides = "double"
)

// Options is a pure value type that fully determines a print job's price.
// PageRange is "all" or a free-text range expression; pricing never inspects
// it.
type Options struct {
	PaperSize PaperSize `json:"paperSize"`
	ColorType ColorType `json:"colorType"`
	Sides     Sides     `json:"sides"`
	Copies    int       `json:"copies"`
	PageRange string    `json:"pageRange"`
	Binding   bool      `json:"binding"`
}

// Order is a submitted print job. All fields are immutable after creation
// except Status.
type Order struct {
	ID               string  `json:"id"`
	UserID           string  `json:"userId"`
	UserEmail        string  `json:"userEmail"`
	FileName         string  `json:"fileName"`
	FileType         string  `json:"fileType"`
	FileBase64       string  `json:"fileBase64"`
	Options          Options `json:"options"`
	TotalPrice       float64 `json:"totalPrice"`
	Status           Status  `json:"status"`
	Timestamp        int64   `json:"timestamp"`
	DeliveryLocation string  `json:"deliveryLocation,omitempty"`
}
