// seed_comunas genera el script SQL que puebla el catálogo de comunas de Chile a partir
// del CSV oficial de división político-administrativa (codificado en ISO-8859-1).
//
// Formato esperado (separador ';', con encabezado):
//
//	codigo_comuna;nombre_comuna;codigo_region;nombre_region
//
// Uso: go run ./cmd/seed_comunas [ruta/comunas.csv]
// Por defecto busca comunas.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/003_seed_comunas.sql
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type comuna struct {
	code, name, regionCode, regionName string
}

func main() {
	csvPath := "comunas.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	comunas, err := parseComunas(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "003_seed_comunas.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, comunas); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d comunas\n", outPath, len(comunas))
}

// parseComunas lee el CSV ya decodificado a UTF-8. Omite el encabezado y las filas
// incompletas; un código repetido conserva la última fila. El resultado va ordenado por código.
func parseComunas(r io.Reader) ([]comuna, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	byCode := make(map[string]comuna)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if len(rec) < 4 {
			continue
		}
		c := comuna{
			code:       strings.TrimSpace(rec[0]),
			name:       strings.TrimSpace(rec[1]),
			regionCode: strings.TrimSpace(rec[2]),
			regionName: strings.TrimSpace(rec[3]),
		}
		if line == 1 && strings.EqualFold(c.code, "codigo_comuna") {
			continue
		}
		if c.code == "" || c.name == "" || c.regionCode == "" {
			continue
		}
		byCode[c.code] = c
	}

	out := make([]comuna, 0, len(byCode))
	for _, c := range byCode {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].code < out[j].code })
	return out, nil
}

// writeSQL escribe un único INSERT idempotente (ON CONFLICT por código).
func writeSQL(w io.Writer, comunas []comuna) error {
	var b strings.Builder
	b.WriteString("-- Comunas de Chile (código CUT)\n")
	b.WriteString("-- Generado por cmd/seed_comunas\n\n")
	if len(comunas) == 0 {
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("INSERT INTO comunas (code, name, region_code, region_name) VALUES\n")
	for i, c := range comunas {
		sep := ","
		if i == len(comunas)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    ('%s', '%s', '%s', '%s')%s\n",
			escapeSQL(c.code), escapeSQL(c.name), escapeSQL(c.regionCode), escapeSQL(c.regionName), sep)
	}
	b.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name,\n")
	b.WriteString("    region_code = EXCLUDED.region_code, region_name = EXCLUDED.region_name;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
