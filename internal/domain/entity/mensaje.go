package entity

import "time"

// Mensaje es una comunicación entre un permisionario y un rol de personal.
// Los mensajes son append-only: no se editan ni se borran.
type Mensaje struct {
	ID              string
	PermisionarioID string // dueño del hilo
	RemitenteID     string
	RemitenteRol    string
	DestinatarioRol string
	Asunto          string
	Cuerpo          string
	Adjuntos        []Adjunto
	CreatedAt       time.Time
}

// Adjunto archivo asociado a un mensaje; Ruta es la clave en el almacenamiento de objetos.
type Adjunto struct {
	NombreOriginal string `json:"nombre_original"`
	Ruta           string `json:"ruta"`
	ContentType    string `json:"content_type"`
	Tamano         int64  `json:"tamano"`
}
