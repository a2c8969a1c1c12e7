// Package rut normaliza, formatea y valida el RUT chileno (Rol Único Tributario).
//
// Forma normalizada (persistida): cuerpo sin puntos, guion y dígito verificador en mayúscula,
// p. ej. "33333333-3". Forma de despliegue: "33.333.333-3".
package rut

import (
	"fmt"
	"strings"
	"unicode"
)

// pesos del módulo 11, aplicados de derecha a izquierda sobre el cuerpo y repetidos en ciclo.
var weights = [6]int{2, 3, 4, 5, 6, 7}

// Normalize quita puntos y espacios y pasa el dígito verificador a mayúscula, preservando
// el segmento tras el guion. Si el valor no trae guion se asume que el último carácter es
// el dígito verificador.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if r == '.' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	out := b.String()
	if out == "" || strings.Contains(out, "-") || len(out) < 2 {
		return out
	}
	return out[:len(out)-1] + "-" + out[len(out)-1:]
}

// Format devuelve la forma de despliegue: agrupa el cuerpo en miles con puntos
// (el grupo de la izquierda puede tener 1 a 3 dígitos). Valores sin guion tras
// normalizar se devuelven normalizados, sin agrupar.
func Format(s string) string {
	n := Normalize(s)
	body, dv, ok := strings.Cut(n, "-")
	if !ok {
		return n
	}
	var groups []string
	for len(body) > 3 {
		groups = append([]string{body[len(body)-3:]}, groups...)
		body = body[:len(body)-3]
	}
	groups = append([]string{body}, groups...)
	return strings.Join(groups, ".") + "-" + dv
}

// CheckDigit calcula el dígito verificador para un cuerpo numérico.
// 11 se representa como '0' y 10 como 'K'.
func CheckDigit(body string) (byte, error) {
	if body == "" {
		return 0, fmt.Errorf("rut: cuerpo vacío")
	}
	sum := 0
	for i := 0; i < len(body); i++ {
		c := body[len(body)-1-i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("rut: carácter no numérico %q en el cuerpo", c)
		}
		sum += int(c-'0') * weights[i%len(weights)]
	}
	switch r := 11 - sum%11; r {
	case 11:
		return '0', nil
	case 10:
		return 'K', nil
	default:
		return byte('0' + r), nil
	}
}

// Validate informa si el RUT (en cualquier forma) tiene cuerpo numérico y un dígito
// verificador correcto. La comparación del verificador no distingue mayúsculas.
func Validate(s string) bool {
	body, dv, ok := strings.Cut(Normalize(s), "-")
	if !ok || len(body) == 0 || len(body) > 9 || len(dv) != 1 {
		return false
	}
	expected, err := CheckDigit(body)
	if err != nil {
		return false
	}
	return strings.EqualFold(string(expected), dv)
}
