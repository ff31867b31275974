// Package memory implementa los puertos de repositorio y el TxRunner en memoria.
// Se usa con STORAGE_DRIVER=memory y en los tests de los casos de uso.
package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// Store datos compartidos por los repositorios en memoria.
// Los valores guardados no se mutan nunca: cada escritura reemplaza el puntero por una copia nueva.
type Store struct {
	mu        sync.RWMutex
	products  map[string]*entity.Product
	movements map[string]*entity.Movement
	movOrder  []string // orden de inserción, desempate de CreatedAt
	users     map[string]*entity.User

	lmu   sync.Mutex
	locks map[string]*sync.Mutex // por producto
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]*entity.Product),
		movements: make(map[string]*entity.Movement),
		users:     make(map[string]*entity.User),
		locks:     make(map[string]*sync.Mutex),
	}
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// timeNow reloj del paquete.
var timeNow = time.Now

// productLock devuelve el mutex del producto, creándolo si no existe.
func (s *Store) productLock(id string) *sync.Mutex {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func cloneProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
