package entity

type Player struct {
	Base
	Name string
}
