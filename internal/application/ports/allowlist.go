package ports

// AllowList consulta el padrón de matrículas habilitadas para registrarse.
// Las implementaciones deben ser seguras para uso concurrente.
type AllowList interface {
	Contains(matricula string) bool
}
