package model

// Motive is a lost/won reason an agent can record a final budget against.
type Motive struct {
	ID     string `db:"ID" json:"id"`
	Motive string `db:"Motive" json:"motive"`
}

type CreateMotiveParams struct {
	Motive string `json:"motive"`
}
