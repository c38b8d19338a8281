package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"comedor-backend/comedor-svc/internal/domain"
	"comedor-backend/comedor-svc/internal/service"
)

type Handler struct {
	Menus  service.MenuServiceInterface
	Orders service.OrderServiceInterface
	Dishes service.DishServiceInterface
	Users  service.UserServiceInterface
	Auth   service.AuthServiceInterface

	dates *service.DateService
}

func NewHandler(menus service.MenuServiceInterface, orders service.OrderServiceInterface,
	dishes service.DishServiceInterface, users service.UserServiceInterface,
	auth service.AuthServiceInterface) *Handler {
	return &Handler{Menus: menus, Orders: orders, Dishes: dishes, Users: users, Auth: auth,
		dates: service.NewDateService()}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/users", h.createUser).Methods("POST")
	r.HandleFunc("/api/users", h.getUsers).Methods("GET")
	r.HandleFunc("/api/users/{id}", h.getUser).Methods("GET")
	r.HandleFunc("/api/users/{id}", h.updateUser).Methods("PUT")
	r.HandleFunc("/api/users/{id}", h.deleteUser).Methods("DELETE")
	r.HandleFunc("/api/users/{id}/status", h.updateUserStatus).Methods("PUT")
	r.HandleFunc("/api/users/{id}/orders", h.getUserOrders).Methods("GET")

	r.HandleFunc("/api/dishes", h.createDish).Methods("POST")
	r.HandleFunc("/api/dishes", h.getDishes).Methods("GET")
	r.HandleFunc("/api/dishes/{id}", h.getDish).Methods("GET")
	r.HandleFunc("/api/dishes/{id}", h.updateDish).Methods("PUT")
	r.HandleFunc("/api/dishes/{id}", h.deleteDish).Methods("DELETE")

	r.HandleFunc("/api/menus", h.createMenu).Methods("POST")
	r.HandleFunc("/api/menus", h.getMenus).Methods("GET")
	r.HandleFunc("/api/menus/{id}", h.getMenu).Methods("GET")
	r.HandleFunc("/api/menus/{id}", h.updateMenu).Methods("PUT")
	r.HandleFunc("/api/menus/{id}", h.deleteMenu).Methods("DELETE")

	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders/pending", h.getPendingOrders).Methods("GET")
	r.HandleFunc("/api/orders/emergency", h.getEmergencyOrders).Methods("GET")
	r.HandleFunc("/api/orders/scan", h.scanOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/status", h.updateOrderStatus).Methods("PUT")
	r.HandleFunc("/api/orders/{id}/cancel", h.cancelOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}/dishes", h.updateOrderDishes).Methods("PUT")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "comedor-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// currentUser resolves the caller identity from the X-User-ID header set by
// the auth gateway. Returns nil (with the response already written) when the
// caller is not authenticated.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) *domain.User {
	userID, _ := strconv.Atoi(r.Header.Get("X-User-ID"))
	user, err := h.Auth.ResolveUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return nil
	}
	return user
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) *domain.User {
	user := h.currentUser(w, r)
	if user == nil {
		return nil
	}
	if !h.Auth.IsAdmin(user) {
		http.Error(w, domain.ErrNotAuthorized.Error(), http.StatusForbidden)
		return nil
	}
	return user
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Users.Create(r.Context(), &user); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) getUsers(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	if role := r.URL.Query().Get("role"); role != "" {
		users, err := h.Users.ListByRole(r.Context(), role)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
		return
	}

	users, err := h.Users.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	user, err := h.Users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user.ID, _ = strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Users.Update(r.Context(), &user); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateUserStatus(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var payload struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Users.SetStatus(r.Context(), id, payload.Active); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": payload.Active})
}

func (h *Handler) createDish(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var dish domain.Dish
	if err := json.NewDecoder(r.Body).Decode(&dish); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Dishes.Create(r.Context(), &dish); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dish)
}

func (h *Handler) getDishes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	dishes, err := h.Dishes.List(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if dishes == nil {
		dishes = []domain.Dish{}
	}
	writeJSON(w, http.StatusOK, dishes)
}

func (h *Handler) getDish(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	dish, err := h.Dishes.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

func (h *Handler) updateDish(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var dish domain.Dish
	if err := json.NewDecoder(r.Body).Decode(&dish); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dish.ID, _ = strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Dishes.Update(r.Context(), &dish); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Dishes.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createMenu(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var menu domain.Menu
	if err := json.NewDecoder(r.Body).Decode(&menu); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := h.Menus.CreateMenu(r.Context(), &menu)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	menu.ID = id
	writeJSON(w, http.StatusCreated, menu)
}

// getMenus serves /api/menus?start=YYYY-MM-DD&end=YYYY-MM-DD. Both bounds
// default to today.
func (h *Handler) getMenus(w http.ResponseWriter, r *http.Request) {
	start, err := h.parseDateParam(r.URL.Query().Get("start"))
	if err != nil {
		http.Error(w, "invalid start date", http.StatusBadRequest)
		return
	}
	end, err := h.parseDateParam(r.URL.Query().Get("end"))
	if err != nil {
		http.Error(w, "invalid end date", http.StatusBadRequest)
		return
	}

	menus, err := h.Menus.GetMenusForDate(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if menus == nil {
		menus = []domain.Menu{}
	}
	writeJSON(w, http.StatusOK, menus)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	menu, err := h.Menus.GetMenuByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (h *Handler) updateMenu(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var updates domain.MenuUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Menus.UpdateMenu(r.Context(), id, updates); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteMenu(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Menus.DeleteMenu(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	var input domain.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.Orders.CreateOrder(r.Context(), user, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	order, err := h.Orders.GetOrderByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}
	h.writeOrderList(w, r, h.Orders.GetOrders)
}

func (h *Handler) getPendingOrders(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}
	h.writeOrderList(w, r, h.Orders.GetPendingOrders)
}

func (h *Handler) getEmergencyOrders(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}
	h.writeOrderList(w, r, h.Orders.GetEmergencyOrders)
}

func (h *Handler) getUserOrders(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id != user.ID && !h.Auth.IsAdmin(user) {
		http.Error(w, domain.ErrNotAuthorized.Error(), http.StatusForbidden)
		return
	}

	orders, err := h.Orders.GetUserOrders(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	order, err := h.Orders.GetOrderByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if order.UserID != user.ID && !h.Auth.IsAdmin(user) {
		http.Error(w, domain.ErrNotAuthorized.Error(), http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	admin := h.requireAdmin(w, r)
	if admin == nil {
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Orders.UpdateOrderStatus(r.Context(), id, payload.Status, admin.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": payload.Status})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	order, err := h.Orders.GetOrderByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if order.UserID != user.ID && !h.Auth.IsAdmin(user) {
		http.Error(w, domain.ErrNotAuthorized.Error(), http.StatusForbidden)
		return
	}

	if err := h.Orders.CancelOrder(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": domain.OrderStatusCancelled})
}

func (h *Handler) updateOrderDishes(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var payload struct {
		Dishes []domain.MenuDish `json:"dishes"`
		Total  float64           `json:"total"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Orders.UpdateOrderDishes(r.Context(), id, payload.Dishes, payload.Total); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	order, err := h.Orders.GetOrderByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if order.UserID != user.ID && !h.Auth.IsAdmin(user) {
		http.Error(w, domain.ErrNotAuthorized.Error(), http.StatusForbidden)
		return
	}

	png, err := h.Orders.GenerateOrderQR(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// scanOrder verifies a scanned QR payload and returns the matched order.
func (h *Handler) scanOrder(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	var payload domain.QRPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.ValidateQRScan(r.Context(), payload)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) writeOrderList(w http.ResponseWriter, r *http.Request, load func(ctx context.Context) ([]domain.Order, error)) {
	orders, err := load(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// parseDateParam reads a YYYY-MM-DD query parameter as a Lima calendar day.
// Parsing in UTC would land on the previous Lima day.
func (h *Handler) parseDateParam(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation("2006-01-02", value, h.dates.Location())
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps the error taxonomy to HTTP statuses: not-found 404,
// auth 401/403, business rules 409, everything else is a store failure.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMenuNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrDishNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrNotAuthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, domain.ErrAccountLocked),
		errors.Is(err, domain.ErrUserInactive),
		errors.Is(err, domain.ErrNotAuthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrDuplicateOrder),
		errors.Is(err, domain.ErrActiveOrderSameDay),
		errors.Is(err, domain.ErrMenuNotAccepting),
		errors.Is(err, domain.ErrInvalidComposition),
		errors.Is(err, domain.ErrMenuHasOrders),
		errors.Is(err, domain.ErrOrderFinalized),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrQRCodeMismatch),
		errors.Is(err, domain.ErrUserHasActiveOrders),
		errors.Is(err, domain.ErrInvalidCategory):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
