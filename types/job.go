package types

type Job struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Organization string `json:"organization"`
}
