package models

// ContentType identifies a model type by a stable numeric id
type ContentType struct {
	ID       int64  `json:"id" db:"id"`
	AppLabel string `json:"app_label" db:"app_label"`
	Model    string `json:"model" db:"model"`
}

// String returns the natural key, e.g. "auth.user"
func (c *ContentType) String() string {
	return c.AppLabel + "." + c.Model
}
