package cart

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	SessionName = "printshop"

	keyCart        = "cart"
	keyCountry     = "shipping_country"
	keyLastOrderID = "last_order_id"
)

// Store persists the cart in the cookie session. The cart is stored as
// a JSON string because securecookie only handles registered types.
//
// Mutations from the same browser session are serialized with a
// per-cookie mutex so two rapid add-to-cart clicks cannot lose an
// update inside one process. The cookie write itself is still
// last-writer-wins; that is inherent to cookie sessions.
type Store struct {
	locks sync.Map // cookie value -> *sync.Mutex
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) lock(c echo.Context) func() {
	key := "anonymous"
	if ck, err := c.Cookie(SessionName); err == nil && ck.Value != "" {
		key = ck.Value
	}
	v, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Store) Cart(c echo.Context) (*Cart, error) {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	raw, ok := sess.Values[keyCart].(string)
	if !ok || raw == "" {
		return New(), nil
	}
	ct := New()
	if err := json.Unmarshal([]byte(raw), ct); err != nil {
		// A cart we cannot decode is discarded rather than wedging the
		// session forever.
		return New(), nil
	}
	return ct, nil
}

// Update loads the cart, applies fn and saves the result, all under the
// session lock. fn returning an error leaves the session untouched.
func (s *Store) Update(c echo.Context, fn func(ct *Cart) error) (*Cart, error) {
	unlock := s.lock(c)
	defer unlock()

	ct, err := s.Cart(c)
	if err != nil {
		return nil, err
	}
	if err := fn(ct); err != nil {
		return nil, err
	}
	if err := s.saveCart(c, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

func (s *Store) saveCart(c echo.Context, ct *Cart) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	raw, err := json.Marshal(ct)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	sess.Values[keyCart] = string(raw)
	return sess.Save(c.Request(), c.Response())
}

func (s *Store) ClearCart(c echo.Context) error {
	unlock := s.lock(c)
	defer unlock()
	return s.saveCart(c, New())
}

func (s *Store) Country(c echo.Context, fallback string) string {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return fallback
	}
	if code, ok := sess.Values[keyCountry].(string); ok && code != "" {
		return code
	}
	return fallback
}

func (s *Store) SetCountry(c echo.Context, code string) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	sess.Values[keyCountry] = code
	return sess.Save(c.Request(), c.Response())
}

func (s *Store) LastOrderID(c echo.Context) (uint, bool) {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return 0, false
	}
	id, ok := sess.Values[keyLastOrderID].(uint64)
	return uint(id), ok
}

func (s *Store) SetLastOrderID(c echo.Context, id uint) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	sess.Values[keyLastOrderID] = uint64(id)
	return sess.Save(c.Request(), c.Response())
}
