package entity

import "time"

// PrePostulante es el registro provisorio creado en el paso 1 del alta.
// Vive hasta ExpiraEn; las lecturas ignoran registros vencidos y un job periódico los purga.
type PrePostulante struct {
	ID           string
	Nombre       string
	Apellido     string
	Matricula    string
	Grado        string
	DNI          string
	Email        string
	PasswordHash string
	Codigo       string
	ExpiraEn     time.Time
	Verificado   bool
	Intentos     int
	CreatedAt    time.Time
}

// Expired indica si el registro venció respecto de now.
func (p *PrePostulante) Expired(now time.Time) bool {
	return !now.Before(p.ExpiraEn)
}
