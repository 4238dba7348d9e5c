package utils

import (
	"github.com/fatih/color"
)

var placeColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiCyan).SprintFunc())(is...)
}
var transitionColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiYellow).SprintFunc())(is...)
}
var funColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiGreen).SprintFunc())(is...)
}
var errColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiRed).SprintFunc())(is...)
}
var faintColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiWhite, color.Faint).SprintFunc())(is...)
}

func PlaceString(label string) string      { return placeColor(label) }
func TransitionString(label string) string { return transitionColor(label) }
func FunString(name string) string         { return funColor(name) }
func ErrorString(err error) string         { return errColor(err.Error()) }
func FaintString(s string) string          { return faintColor(s) }
