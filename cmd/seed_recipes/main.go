// seed_recipes genera el script SQL de recetas legadas (product_recipes) a partir del
// CSV exportado por el POS anterior. El archivo viene en ISO-8859-1 separado por ';'.
//
// Columnas: product_id;branch_id;insumo;cantidad;unidad
//
// Uso: go run ./cmd/seed_recipes [ruta/recetas.csv]
// Escribe: internal/infrastructure/postgres/migrations/002_seed_product_recipes.sql
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type recipeRow struct {
	productID int64
	branchID  int64
	material  string
	amount    decimal.Decimal
	unit      string
}

func main() {
	csvPath := "recetas.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseRecipes(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer recetas: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_product_recipes.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d recetas\n", outPath, len(rows))
}

// parseRecipes lee el CSV ya decodificado a UTF-8. La primera fila es el encabezado.
// Si un producto aparece varias veces gana la última fila (una receta por producto).
func parseRecipes(r io.Reader) ([]recipeRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = 5
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}

	index := make(map[int64]int)
	var rows []recipeRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if i, ok := index[row.productID]; ok {
			rows[i] = row
			continue
		}
		index[row.productID] = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (recipeRow, error) {
	productID, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
	if err != nil || productID <= 0 {
		return recipeRow{}, fmt.Errorf("product_id inválido %q", rec[0])
	}
	branchID, err := strconv.ParseInt(strings.TrimSpace(rec[1]), 10, 64)
	if err != nil || branchID <= 0 {
		return recipeRow{}, fmt.Errorf("branch_id inválido %q", rec[1])
	}
	material := strings.TrimSpace(rec[2])
	if material == "" {
		return recipeRow{}, fmt.Errorf("insumo vacío")
	}
	// El POS exporta con coma decimal.
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[3]), ",", "."))
	if err != nil || !amount.IsPositive() {
		return recipeRow{}, fmt.Errorf("cantidad inválida %q", rec[3])
	}
	unit := strings.TrimSpace(rec[4])
	if unit == "" {
		return recipeRow{}, fmt.Errorf("unidad vacía")
	}
	return recipeRow{productID: productID, branchID: branchID, material: material, amount: amount, unit: unit}, nil
}

// writeSQL resuelve el insumo por nombre dentro de la sucursal.
func writeSQL(w io.Writer, rows []recipeRow) error {
	var b strings.Builder
	b.WriteString("-- Recetas legadas por producto (una por producto)\n")
	b.WriteString("-- Generado desde el CSV del POS anterior\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "INSERT INTO product_recipes (product_id, material_id, amount, unit)\n")
		fmt.Fprintf(&b, "SELECT %d, id, %s, '%s' FROM inventory_items WHERE branch_id = %d AND lower(name) = lower('%s')\n",
			r.productID, r.amount.String(), escapeSQL(r.unit), r.branchID, escapeSQL(r.material))
		b.WriteString("ON CONFLICT (product_id) DO UPDATE SET material_id = EXCLUDED.material_id, amount = EXCLUDED.amount, unit = EXCLUDED.unit;\n")
	}
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
