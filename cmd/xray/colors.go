package main

import "github.com/fatih/color"

// riskString tints a risk tier the way its severity deserves.
func riskString(risk string) string {
	switch risk {
	case "CRITICAL":
		return color.New(color.FgRed, color.Bold).Sprint(risk)
	case "HIGH":
		return color.RedString(risk)
	case "MEDIUM":
		return color.YellowString(risk)
	case "LOW":
		return color.GreenString(risk)
	default:
		return risk
	}
}
