package supplier

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List() []Supplier {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (Supplier, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(sup Supplier) (Supplier, error) {
	if _, err := s.repo.GetByEmail(sup.Email); err == nil {
		return Supplier{}, ErrEmailExists
	} else if err != ErrNotFound {
		return Supplier{}, err
	}
	return s.repo.Create(sup)
}

func (s *Service) Update(id int, sup Supplier) (Supplier, error) {
	// a changed email must not collide with another supplier
	if existing, err := s.repo.GetByEmail(sup.Email); err == nil && existing.ID != id {
		return Supplier{}, ErrEmailExists
	} else if err != nil && err != ErrNotFound {
		return Supplier{}, err
	}
	return s.repo.Update(id, sup)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}
