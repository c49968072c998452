package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	created []Employee
}

func (m *memoryStore) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	for _, emp := range m.created {
		if emp.ID == employeeID {
			return emp, nil
		}
	}
	return Employee{}, ErrEmployeeNotFound
}

func (m *memoryStore) CountEmployees(ctx context.Context, filter EmployeeFilter) (int, error) {
	return len(m.created), nil
}

func (m *memoryStore) ListEmployees(ctx context.Context, filter EmployeeFilter, limit, offset int) ([]Employee, error) {
	return m.created, nil
}

func (m *memoryStore) CreateEmployee(ctx context.Context, emp Employee) (Employee, error) {
	emp.ID = "emp-1"
	m.created = append(m.created, emp)
	return emp, nil
}

func TestCreateEmployeeNormalizes(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store)

	emp, err := svc.CreateEmployee(context.Background(), Employee{Name: "  Nimal Perera ", Email: " Nimal@Example.COM ", Designation: " Tailor "})
	require.NoError(t, err)
	assert.Equal(t, "Nimal Perera", emp.Name)
	assert.Equal(t, "nimal@example.com", emp.Email)
	assert.Equal(t, "Tailor", emp.Designation)
	assert.Equal(t, EmployeeStatusActive, emp.Status)
}

func TestCreateEmployeeRequiresName(t *testing.T) {
	svc := NewService(&memoryStore{})
	_, err := svc.CreateEmployee(context.Background(), Employee{Name: "   "})
	require.ErrorIs(t, err, ErrEmployeeNameMissing)
}

func TestDisplayDesignation(t *testing.T) {
	assert.Equal(t, "N/A", Employee{}.DisplayDesignation())
	assert.Equal(t, "Cutter", Employee{Designation: "Cutter"}.DisplayDesignation())
}

func TestGetEmployeeNotFound(t *testing.T) {
	svc := NewService(&memoryStore{})
	_, err := svc.GetEmployee(context.Background(), "missing")
	require.ErrorIs(t, err, ErrEmployeeNotFound)
}
