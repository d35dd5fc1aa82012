// import_viviendas carga o actualiza el inventario de viviendas desde un CSV.
//
// Uso: go run ./cmd/import_viviendas [ruta/viviendas.csv]
// Columnas (la primera fila es encabezado, el orden es libre):
// codigo, barrio, unidad, edificio, piso, departamento, dormitorios, capacidad,
// medidor_luz, medidor_agua, medidor_gas. Solo codigo y barrio son obligatorias.
// Las viviendas existentes se actualizan por codigo sin tocar titular ni estado.
// Acepta UTF-8 o ISO-8859-1 (exportaciones de planillas viejas).
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/infrastructure/postgres"
	"github.com/marianodev72/sitio98plus-sub001/pkg/config"
	"github.com/marianodev72/sitio98plus-sub001/pkg/logger"
)

type upserter interface {
	Upsert(ctx context.Context, v *entity.Vivienda) error
}

func main() {
	csvPath := "viviendas.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	rows, err := parse(raw, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	n, err := load(ctx, postgres.NewViviendaRepository(pool), rows)
	if err != nil {
		log.Fatal().Err(err).Int("importadas", n).Msg("importación interrumpida")
	}
	log.Info().Int("viviendas", n).Str("archivo", csvPath).Msg("importación completa")
}

func load(ctx context.Context, repo upserter, rows []*entity.Vivienda) (int, error) {
	for i, v := range rows {
		if err := repo.Upsert(ctx, v); err != nil {
			return i, err
		}
	}
	return len(rows), nil
}

var columnas = []string{
	"codigo", "barrio", "unidad", "edificio", "piso", "departamento",
	"dormitorios", "capacidad", "medidor_luz", "medidor_agua", "medidor_gas",
}

func parse(raw []byte, now time.Time) ([]*entity.Vivienda, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	r := csv.NewReader(src)
	r.Comma = delimiter(raw)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("archivo vacío")
		}
		return nil, err
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range columnas[:2] {
		if _, ok := idx[req]; !ok {
			return nil, fmt.Errorf("falta la columna %q", req)
		}
	}

	var out []*entity.Vivienda
	seen := map[string]int{}
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		v := &entity.Vivienda{
			ID:           uuid.New().String(),
			Codigo:       strings.ToUpper(get("codigo")),
			Barrio:       get("barrio"),
			Unidad:       get("unidad"),
			Edificio:     get("edificio"),
			Piso:         get("piso"),
			Departamento: get("departamento"),
			Estado:       entity.ViviendaDisponible,
			MedidorLuz:   get("medidor_luz"),
			MedidorAgua:  get("medidor_agua"),
			MedidorGas:   get("medidor_gas"),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if v.Codigo == "" && v.Barrio == "" {
			continue
		}
		if v.Codigo == "" || v.Barrio == "" {
			return nil, fmt.Errorf("línea %d: codigo y barrio son obligatorios", line)
		}
		if prev, dup := seen[v.Codigo]; dup {
			return nil, fmt.Errorf("línea %d: codigo %s repetido (línea %d)", line, v.Codigo, prev)
		}
		seen[v.Codigo] = line
		if v.Dormitorios, err = atoi(get("dormitorios")); err != nil {
			return nil, fmt.Errorf("línea %d: dormitorios: %w", line, err)
		}
		if v.Capacidad, err = atoi(get("capacidad")); err != nil {
			return nil, fmt.Errorf("línea %d: capacidad: %w", line, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("valor %q inválido", s)
	}
	return n, nil
}

// delimiter elige ';' cuando la primera línea tiene más punto y coma que comas.
func delimiter(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}
