package dto

import "github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"

// ToUserResponse convierte la entidad a su representación pública (sin hash de password).
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Nombre:          u.Nombre,
		Apellido:        u.Apellido,
		Email:           u.Email,
		Rol:             u.Rol,
		Estado:          u.Estado,
		Matricula:       u.Matricula,
		Grado:           u.Grado,
		DNI:             u.DNI,
		Telefono:        u.Telefono,
		EmailVerificado: u.EmailVerificado,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// ToViviendaResponse convierte una vivienda.
func ToViviendaResponse(v *entity.Vivienda) *ViviendaResponse {
	if v == nil {
		return nil
	}
	return &ViviendaResponse{
		ID:           v.ID,
		Codigo:       v.Codigo,
		Barrio:       v.Barrio,
		Unidad:       v.Unidad,
		Edificio:     v.Edificio,
		Piso:         v.Piso,
		Departamento: v.Departamento,
		Dormitorios:  v.Dormitorios,
		Capacidad:    v.Capacidad,
		Estado:       v.Estado,
		TitularID:    v.TitularID,
		MedidorLuz:   v.MedidorLuz,
		MedidorAgua:  v.MedidorAgua,
		MedidorGas:   v.MedidorGas,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// ToAnexo11Response convierte el documento completo, historial incluido.
func ToAnexo11Response(a *entity.Anexo11) *Anexo11Response {
	if a == nil {
		return nil
	}
	p := a.Permisionario
	out := &Anexo11Response{
		ID: a.ID,
		Permisionario: Anexo11PermisionarioDTO{
			Unidad: p.Unidad, Barrio: p.Barrio, Domicilio: p.Domicilio,
			Telefono: p.Telefono, Solicita: p.Solicita, Detalle: p.Detalle,
		},
		Estado:      string(a.Estado),
		Historial:   make([]HistorialEntryDTO, 0, len(a.Historial)),
		CreadoPor:   a.CreadoPor,
		InspectorID: a.InspectorID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if i := a.Inspector; i != nil {
		out.Inspector = &Anexo11InspectorDTO{Trabajo: i.Trabajo, Urgente: i.Urgente, ConCargoA: i.ConCargoA, Razon: i.Razon}
	}
	if ag := a.AdminGeneral; ag != nil {
		out.AdminGeneral = &Anexo11AdminGeneralDTO{Observaciones: ag.Observaciones}
	}
	for _, h := range a.Historial {
		out.Historial = append(out.Historial, HistorialEntryDTO(h))
	}
	return out
}

// ToMensajeResponse convierte un mensaje; los adjuntos se identifican por índice.
func ToMensajeResponse(m *entity.Mensaje) *MensajeResponse {
	if m == nil {
		return nil
	}
	out := &MensajeResponse{
		ID:              m.ID,
		PermisionarioID: m.PermisionarioID,
		RemitenteID:     m.RemitenteID,
		RemitenteRol:    m.RemitenteRol,
		DestinatarioRol: m.DestinatarioRol,
		Asunto:          m.Asunto,
		Cuerpo:          m.Cuerpo,
		Adjuntos:        make([]AdjuntoResponse, 0, len(m.Adjuntos)),
		CreatedAt:       m.CreatedAt,
	}
	for i, a := range m.Adjuntos {
		out.Adjuntos = append(out.Adjuntos, AdjuntoResponse{
			Indice: i, NombreOriginal: a.NombreOriginal, ContentType: a.ContentType, Tamano: a.Tamano,
		})
	}
	return out
}

// ToPostulacionResponse convierte una postulación.
func ToPostulacionResponse(p *entity.Postulacion) *PostulacionResponse {
	if p == nil {
		return nil
	}
	d := p.Datos
	out := &PostulacionResponse{
		ID:   p.ID,
		Tipo: p.Tipo,
		Datos: DatosPostulanteDTO{
			Nombre: d.Nombre, Apellido: d.Apellido, DNI: d.DNI, Matricula: d.Matricula, Grado: d.Grado,
			Destino: d.Destino, Telefono: d.Telefono, EstadoCivil: d.EstadoCivil, IngresoMensual: d.IngresoMensual,
			GrupoFamiliar: make([]FamiliarDTO, 0, len(d.GrupoFamiliar)),
			Mascotas:      make([]MascotaDTO, 0, len(d.Mascotas)),
			Declaraciones: DeclaracionesDTO(d.Declaraciones),
		},
		Preferencias: PreferenciasDTO{
			Barrios:        p.Preferencias.Barrios,
			DormitoriosMin: p.Preferencias.DormitoriosMin,
			Observaciones:  p.Preferencias.Observaciones,
		},
		Estado:    p.Estado,
		UsuarioID: p.UsuarioID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for _, f := range d.GrupoFamiliar {
		out.Datos.GrupoFamiliar = append(out.Datos.GrupoFamiliar, FamiliarDTO(f))
	}
	for _, m := range d.Mascotas {
		out.Datos.Mascotas = append(out.Datos.Mascotas, MascotaDTO(m))
	}
	return out
}
