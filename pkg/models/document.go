package models

// Document is the shared shape of an invoice and a delivery note as far as
// intake validation cares: who sent it and how many units it declares.
type Document struct {
	Supplier      string `json:"supplier"`
	TotalQuantity int    `json:"total_quantity"`
}

// DocumentSet carries the paperwork accompanying a received lot. Either
// pointer may be nil when the document was not handed in.
type DocumentSet struct {
	Invoice      *Document `json:"invoice"`
	DeliveryNote *Document `json:"delivery_note"`
}
