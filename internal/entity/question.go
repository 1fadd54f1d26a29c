package entity

type Option struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type Question struct {
	ID         int `gorm:"primarykey"`
	CategoryID int `gorm:"index"`
	ImageCode  string
	Content    string
	Options    Array[Option]

	// Answer is the id of the correct option. Options are shuffled per
	// lookup, so the answer is never positional.
	Answer int
}
