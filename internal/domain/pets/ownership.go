package pets

import "context"

// OwnerOf expone el ownerUserID de una mascota.
// Es el único punto donde appointments resuelve la cadena de propiedad
// (Appointment -> Pet -> owner); evita ciclos de imports entre módulos.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}
