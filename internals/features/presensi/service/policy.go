package service

import (
	m "presensiku_backend/internals/features/presensi/model"
)

type Operation string

const (
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// CanMutate adalah fungsi keputusan murni untuk operasi mutasi:
//   - update (koreksi timestamp): hanya admin
//   - delete: admin, atau pemilik catatan
//
// Check-in/check-out tidak lewat sini: keduanya selalu beroperasi atas
// identitas pemanggil sendiri.
func CanMutate(actor Actor, rec *m.PresensiModel, op Operation) bool {
	switch op {
	case OpUpdate:
		return actor.IsAdmin()
	case OpDelete:
		return actor.IsAdmin() || (rec != nil && rec.UserID == actor.UserID)
	default:
		return false
	}
}
