package model

type Setting struct {
	Key   string `db:"setting_key" json:"key"`
	Value string `db:"setting_value" json:"value"`
}
