package browser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LocatorStrategy descreve uma forma de encontrar o botão de login.
// Text filtra pelo texto visível (substring, sem diferenciar maiúsculas);
// Nth > 0 escolhe a n-ésima ocorrência entre as que casam.
type LocatorStrategy struct {
	Name     string
	Selector string
	Text     string
	Nth      int
}

// DefaultLocatorStrategies é a ordem de prioridade usada pelo painel atual.
// A lista depende do markup da página de login e quebra quando a UI muda.
var DefaultLocatorStrategies = []LocatorStrategy{
	{Name: "second-continue", Selector: "button", Text: "Continue", Nth: 2},
	{Name: "mui-contained-continue", Selector: "button.MuiButton-contained", Text: "Continue"},
	{Name: "mui-root-continue", Selector: "button.MuiButton-root", Text: "Continue"},
	{Name: "submit", Selector: `button[type="submit"]`},
	{Name: "login-text", Selector: "button", Text: "Login"},
	{Name: "sign-in-text", Selector: "button", Text: "Sign in"},
	{Name: "login-button-class", Selector: ".login-button"},
	{Name: "form-button", Selector: "form button"},
	{Name: "mui-contained", Selector: "button.MuiButton-contained"},
	{Name: "mui-root", Selector: "button.MuiButton-root"},
}

// Locate aplica a estratégia; o primeiro elemento visível vence
func (s LocatorStrategy) Locate(doc *goquery.Document) (*goquery.Selection, bool) {
	matches := doc.Find(s.Selector)
	if s.Text != "" {
		matches = matches.FilterFunction(func(_ int, sel *goquery.Selection) bool {
			return hasText(sel, s.Text)
		})
	}

	if s.Nth > 0 {
		if matches.Length() < s.Nth {
			return nil, false
		}
		candidate := matches.Eq(s.Nth - 1)
		return candidate, isVisible(candidate)
	}

	var found *goquery.Selection
	matches.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if isVisible(sel) {
			found = sel
			return false
		}
		return true
	})

	return found, found != nil
}

// locateFallback tenta o segundo "Continue" e depois o último botão do formulário,
// sem checar visibilidade
func locateFallback(doc *goquery.Document) (*goquery.Selection, string, bool) {
	continueButtons := doc.Find("button").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return hasText(sel, "Continue")
	})
	if continueButtons.Length() >= 2 {
		return continueButtons.Eq(1), "fallback-second-continue", true
	}

	formButtons := doc.Find("form button")
	if formButtons.Length() > 0 {
		return formButtons.Last(), "fallback-last-form-button", true
	}

	return nil, "", false
}

func hasText(sel *goquery.Selection, text string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(sel.Text())), strings.ToLower(text))
}

// isVisible aproxima a visibilidade a partir do HTML estático
func isVisible(sel *goquery.Selection) bool {
	if sel == nil || sel.Length() == 0 {
		return false
	}

	hidden := false
	sel.AddSelection(sel.Parents()).EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if _, ok := node.Attr("hidden"); ok {
			hidden = true
		}
		if strings.EqualFold(node.AttrOr("type", ""), "hidden") {
			hidden = true
		}
		if node.AttrOr("aria-hidden", "") == "true" {
			hidden = true
		}
		style := strings.ReplaceAll(strings.ToLower(node.AttrOr("style", "")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			hidden = true
		}
		return !hidden
	})

	return !hidden
}
