package inventory

// Item maps to the inventory table: one row per medicine the office stocks.
// Stock never goes negative; the conditional decrement enforces it.
type Item struct {
	Medicine string `db:"medicine" json:"medicine"`
	Stock    int    `db:"stock" json:"stock"`
}
