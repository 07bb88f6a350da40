package model

// BusinessType is one entry of the server's classification taxonomy.
type BusinessType struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
