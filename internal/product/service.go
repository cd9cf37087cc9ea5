package product

// ServiceInterface is what other packages (orders, handlers in tests) depend
// on instead of the concrete service.
type ServiceInterface interface {
	List(f Filter) []Product
	GetByID(id int) (Product, error)
	ListByIDs(ids []int) ([]Product, error)
	Categories() []string
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Delete(id int) error
	Restock(id int, quantity int) (Product, error)
}

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) List(f Filter) []Product {
	return s.repo.List(f)
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) Categories() []string {
	return s.repo.Categories()
}

func (s *Service) Create(p Product) (Product, error) {
	if p.ProductType == "" {
		p.ProductType = TypeIndividualFlower
	}
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

// Restock adds quantity to a product's stock. Decrements are not exposed
// here; the order flow performs them transactionally on its own.
func (s *Service) Restock(id int, quantity int) (Product, error) {
	return s.repo.AdjustStock(id, quantity)
}
