package ratelimit

import (
	"context"
	"time"
)

// Store es un contador de ventana fija con TTL, keyed por usuario+ruta.
// La implementación in-memory no sobrevive reinicios ni se comparte entre
// instancias; si el servicio escala horizontalmente, usar un contador
// compartido (Redis o similar) detrás de esta misma interfaz.
type Store interface {
	// Incr incrementa el contador de key dentro de la ventana actual y
	// devuelve el conteo resultante más el tiempo restante de la ventana.
	Incr(ctx context.Context, key string, window time.Duration) (count int, resetIn time.Duration, err error)
}
