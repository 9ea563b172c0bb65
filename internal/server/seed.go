package server

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/notification-center/internal/store"
)

type sample struct {
	kind    string
	title   string
	message string
	link    string
}

var samples = []sample{
	{"parto", "Nuevo parto registrado", "Se registró un parto en sala 2.", "/partos/"},
	{"correccion", "Corrección solicitada", "La ficha de ingreso requiere corrección del RUT.", "/fichas/"},
	{"sistema", "Mantención programada", "El sistema se reiniciará a las 23:00.", ""},
	{"parto", "Parto por cesárea", "Registrado por el turno de noche.", "/partos/"},
	{"correccion", "Corrección aprobada", "Su corrección fue aprobada por supervisión.", ""},
}

// Seed creates n sample notifications for recipient, spaced over the past
// hours with the newest last. Every third one is created read.
func Seed(ctx context.Context, st store.Store, recipient string, n int, now time.Time) error {
	for i := 0; i < n; i++ {
		smp := samples[i%len(samples)]
		r, err := st.Create(ctx, store.Record{
			Recipient: recipient,
			Type:      smp.kind,
			Title:     smp.title,
			Message:   smp.message,
			Link:      smp.link,
			CreatedAt: now.Add(-time.Duration(n-i) * 17 * time.Minute),
		})
		if err != nil {
			return fmt.Errorf("seeding notification %d: %w", i, err)
		}
		if i%3 == 2 {
			if err := st.MarkRead(ctx, recipient, r.ID); err != nil {
				return fmt.Errorf("marking seeded notification %d read: %w", i, err)
			}
		}
	}
	return nil
}
