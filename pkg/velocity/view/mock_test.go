package view

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/mail"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) List(ctx context.Context) ([]dal.Vehicle, error) {
	args := m.Called(ctx)
	vehicles, _ := args.Get(0).([]dal.Vehicle)
	return vehicles, args.Error(1)
}

func (m *mockCatalog) Create(ctx context.Context, v dal.Vehicle) (dal.Vehicle, error) {
	args := m.Called(ctx, v)
	created, _ := args.Get(0).(dal.Vehicle)
	return created, args.Error(1)
}

func (m *mockCatalog) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func supercars() []dal.Vehicle {
	return []dal.Vehicle{
		{
			ID: 1, Name: "Aventador", Brand: "Lamborghini", Type: "Supercar", Price: 400000, TopSpeed: 217,
			Specifications: dal.Specifications{Engine: "V12", Transmission: "7-speed ISR", Drivetrain: "AWD", Weight: "1575 kg", FuelEconomy: "11 mpg"},
			Features:       []string{"Carbon fibre monocoque", "Scissor doors"},
		},
		{ID: 2, Name: "Huracan", Brand: "Lamborghini", Type: "Supercar", Price: 260000, TopSpeed: 201},
		{ID: 3, Name: "SF90 Stradale", Brand: "Ferrari", Type: "Hypercar", Price: 625000, TopSpeed: 211},
	}
}
