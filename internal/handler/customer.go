package handler // handler package contains customer resource handlers

import (
	"errors"   // errors.Is comparisons on repository sentinels
	"net/http" // http provides status code constants
	"strings"  // strings offers trimming utilities

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/dcortes/mechanic-shop-api/internal/model"      // model holds the shop entities
	"github.com/dcortes/mechanic-shop-api/internal/repository" // repository holds the data access layer
)

// CustomerHandler bundles the customer repository for CRUD endpoints.
type CustomerHandler struct {
	Customers *repository.CustomerRepo // Customers provides customer persistence
}

// NewCustomerHandler constructs a CustomerHandler and panics if the repository is nil.
func NewCustomerHandler(customers *repository.CustomerRepo) *CustomerHandler {
	if customers == nil { // check for nil dependency
		panic("nil repository passed to NewCustomerHandler") // panic when the repository is missing
	}
	return &CustomerHandler{Customers: customers}
}

// customerBody is the JSON payload for create and update requests.
type customerBody struct {
	FirstName string `json:"first_name"` // customer's first name
	LastName  string `json:"last_name"`  // customer's last name
	Email     string `json:"email"`      // unique email address
	Phone     string `json:"phone"`      // unique phone number
	Address   string `json:"address"`    // postal address
}

// customerResp is the JSON shape of a customer record.
type customerResp struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func newCustomerResp(cu *model.Customer) customerResp {
	return customerResp{
		ID:        cu.ID,
		FirstName: cu.FirstName,
		LastName:  cu.LastName,
		Email:     cu.Email,
		Phone:     cu.Phone,
		Address:   cu.Address,
	}
}

// Create handles POST /v1/customers and creates a new customer record.
func (h *CustomerHandler) Create(c echo.Context) error { // begin Create handler
	var body customerBody // payload struct to bind incoming JSON
	if err := c.Bind(&body); err != nil { // attempt to bind the request body
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"}) // return bad request when binding fails
	}
	cu := &model.Customer{ // instantiate a new customer model
		FirstName: strings.TrimSpace(body.FirstName), // assign the trimmed first name
		LastName:  strings.TrimSpace(body.LastName),  // assign the trimmed last name
		Email:     strings.TrimSpace(body.Email),     // repository lowercases the email
		Phone:     strings.TrimSpace(body.Phone),     // assign the trimmed phone number
		Address:   strings.TrimSpace(body.Address),   // assign the trimmed address
	}
	if cu.FirstName == "" || cu.LastName == "" || cu.Email == "" || cu.Phone == "" { // ensure all identifying fields are present
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name, last_name, email and phone are required"}) // respond with error when a field is empty
	}
	if err := h.Customers.Create(c.Request().Context(), cu); err != nil { // delegate creation to the repository
		if errors.Is(err, repository.ErrEmailExists) { // duplicate email violation
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"}) // respond with conflict when the email is taken
		}
		if errors.Is(err, repository.ErrPhoneExists) { // duplicate phone violation
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone already exists"}) // respond with conflict when the phone is taken
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create customer"}) // respond with internal error for other failures
	}
	return c.JSON(http.StatusCreated, newCustomerResp(cu)) // return 201 and the created customer on success
}

// Get handles GET /v1/customers/:id and returns a single customer.
func (h *CustomerHandler) Get(c echo.Context) error { // begin Get handler
	id, ok := pathID(c, "id") // parse the customer ID from the URL
	if !ok {                  // validate that the ID is numeric and non-zero
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"}) // invalid ID error response
	}
	cu, err := h.Customers.GetByID(c.Request().Context(), id) // fetch the customer from the repository
	if err != nil {                                           // handle repository errors
		if errors.Is(err, repository.ErrCustomerNotFound) { // when the customer is not found
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"}) // respond with not found
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"}) // respond with database error
	}
	return c.JSON(http.StatusOK, newCustomerResp(cu)) // return the customer with OK status
}

// List handles GET /v1/customers and returns all customers.
func (h *CustomerHandler) List(c echo.Context) error { // begin List handler
	items, err := h.Customers.List(c.Request().Context()) // fetch all customers
	if err != nil {                                       // handle repository errors
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"}) // respond with internal server error
	}
	out := make([]customerResp, 0, len(items)) // allocate the response slice
	for i := range items {                     // convert each record
		out = append(out, newCustomerResp(&items[i])) // append the response shape
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out}) // return the list wrapped in a JSON object
}

// Update handles PUT /v1/customers/:id and replaces the customer's fields.
func (h *CustomerHandler) Update(c echo.Context) error { // begin Update handler
	id, ok := pathID(c, "id") // parse the customer ID from the URL
	if !ok {                  // validate that the ID is numeric and non-zero
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"}) // invalid ID error response
	}
	var body customerBody // struct for binding the JSON payload
	if err := c.Bind(&body); err != nil { // attempt to bind the request body
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"}) // return bad request when binding fails
	}
	cu := &model.Customer{ // build the replacement record
		ID:        id,                                // target the requested customer
		FirstName: strings.TrimSpace(body.FirstName), // assign the trimmed first name
		LastName:  strings.TrimSpace(body.LastName),  // assign the trimmed last name
		Email:     strings.TrimSpace(body.Email),     // repository lowercases the email
		Phone:     strings.TrimSpace(body.Phone),     // assign the trimmed phone number
		Address:   strings.TrimSpace(body.Address),   // assign the trimmed address
	}
	if cu.FirstName == "" || cu.LastName == "" || cu.Email == "" || cu.Phone == "" { // all identifying fields must be present
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name, last_name, email and phone are required"}) // respond with bad request when a field is empty
	}
	if err := h.Customers.Update(c.Request().Context(), cu); err != nil { // apply the update through the repository
		if errors.Is(err, repository.ErrCustomerNotFound) { // no such customer
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"}) // respond with not found
		}
		if errors.Is(err, repository.ErrEmailExists) { // duplicate email violation
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"}) // respond with conflict
		}
		if errors.Is(err, repository.ErrPhoneExists) { // duplicate phone violation
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone already exists"}) // respond with conflict
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"}) // respond with generic update failure
	}
	updated, err := h.Customers.GetByID(c.Request().Context(), id) // fetch the updated record
	if err != nil {                                                // the row was just written, treat failure as a DB error
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"}) // respond with database error
	}
	return c.JSON(http.StatusOK, newCustomerResp(updated)) // return the updated customer with OK status
}

// Delete handles DELETE /v1/customers/:id and removes the customer.
// Customers with open service tickets cannot be removed.
func (h *CustomerHandler) Delete(c echo.Context) error { // begin Delete handler
	id, ok := pathID(c, "id") // parse the customer ID from the URL
	if !ok {                  // validate that the ID is numeric and non-zero
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"}) // invalid ID error response
	}
	if err := h.Customers.Delete(c.Request().Context(), id); err != nil { // delegate deletion to the repository
		if errors.Is(err, repository.ErrCustomerNotFound) { // no such customer
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"}) // respond with not found
		}
		if errors.Is(err, repository.ErrConflict) { // foreign key constraint from service tickets
			return c.JSON(http.StatusConflict, echo.Map{"error": "customer has service tickets"}) // respond with conflict
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"}) // respond with generic delete failure
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Customer deleted"}) // confirm the deletion
}
