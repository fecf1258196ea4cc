package rig

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// Housing

type Door struct{ label string }

type Window struct{ label string }

type House struct {
	Door   *Door
	Window *Window
}

func NewDoor() *Door { return &Door{label: "door"} }

func NewWindow() *Window { return &Window{label: "window"} }

func NewHouse(door *Door, window *Window) *House {
	return &House{Door: door, Window: window}
}

func housingDefinition(t *testing.T) *Definition {
	t.Helper()

	def, err := Define("housing").
		Bind(KeyOf[*House](), NewHouse, Inject[*Door](), Inject[*Window]()).
		Bind(KeyOf[*Window](), NewWindow).
		Bind(KeyOf[*Door](), NewDoor).
		Build()
	require.NoError(t, err)

	return def
}

// Databases

type Database struct{ URI string }

func NewDatabase(uri string) *Database { return &Database{URI: uri} }

type DbApplication struct{ DB *Database }

func NewDbApplication(db *Database) *DbApplication { return &DbApplication{DB: db} }

type dbURIs struct {
	Foo string
	Bar string
}

type MultiDbApplication struct {
	Foo *Database
	Bar *Database
}

func NewMultiDbApplication(foo, bar *Database) *MultiDbApplication {
	return &MultiDbApplication{Foo: foo, Bar: bar}
}

func multiDbDefinition(t *testing.T) *Definition {
	t.Helper()

	def, err := Define("multi_db").
		Bind(Named("foo_db"), NewDatabase, FromState(func(s *dbURIs) any { return s.Foo })).
		Bind(Named("bar_db"), NewDatabase, FromState(func(s *dbURIs) any { return s.Bar })).
		Bind(KeyOf[*MultiDbApplication](), NewMultiDbApplication, InjectNamed("foo_db"), InjectNamed("bar_db")).
		Build()
	require.NoError(t, err)

	return def
}

// Shopping cart, spread over five configurations

type User struct{ DB *Database }

type UserService struct{ Users *User }

type Product struct{ DB *Database }

type ProductService struct{ Products *Product }

type ShoppingCart struct {
	Users    *UserService
	Products *ProductService
}

type ShoppingCartService struct {
	Cart  *ShoppingCart
	Users *UserService
}

func shoppingCartConfigurations(t *testing.T) []*Configuration {
	t.Helper()

	database, err := Define("database").
		BindSingleton(KeyOf[*Database](), NewDatabase, Value("foo://localhost:9001")).
		Build()
	require.NoError(t, err)

	users, err := Define("user").
		Bind(KeyOf[*User](), func(db *Database) *User { return &User{DB: db} }, Inject[*Database]()).
		Bind(KeyOf[*UserService](), func(u *User) *UserService { return &UserService{Users: u} }, Inject[*User]()).
		Build()
	require.NoError(t, err)

	products, err := Define("product").
		Bind(KeyOf[*Product](), func(db *Database) *Product { return &Product{DB: db} }, Inject[*Database]()).
		Bind(KeyOf[*ProductService](), func(p *Product) *ProductService { return &ProductService{Products: p} }, Inject[*Product]()).
		Build()
	require.NoError(t, err)

	cart, err := Define("shopping_cart").
		Bind(KeyOf[*ShoppingCart](), func(u *UserService, p *ProductService) *ShoppingCart {
			return &ShoppingCart{Users: u, Products: p}
		}, Inject[*UserService](), Inject[*ProductService]()).
		Build()
	require.NoError(t, err)

	application, err := Define("application").
		Bind(KeyOf[*ShoppingCartService](), func(cart *ShoppingCart, u *UserService) *ShoppingCartService {
			return &ShoppingCartService{Cart: cart, Users: u}
		}, Inject[*ShoppingCart](), Inject[*UserService]()).
		Build()
	require.NoError(t, err)

	return []*Configuration{
		database.New(nil),
		users.New(nil),
		products.New(nil),
		cart.New(nil),
		application.New(nil),
	}
}

// counter hands out 1, 2, 3, ... and records how many times it was called.
type counter struct {
	n atomic.Int64
}

func (c *counter) next() int {
	return int(c.n.Add(1))
}

func (c *counter) calls() int {
	return int(c.n.Load())
}

// mapResolver is a Resolver backed by a map, for provider tests.
type mapResolver map[Key]any

func (m mapResolver) Resolve(key Key) (any, error) {
	value, ok := m[key]
	if !ok {
		return nil, ErrNoProvider("map", key)
	}

	if err, isErr := value.(error); isErr {
		return nil, err
	}

	return value, nil
}

func (m mapResolver) Knows(key Key) bool {
	_, ok := m[key]

	return ok
}

var errBoom = errors.New("boom")
