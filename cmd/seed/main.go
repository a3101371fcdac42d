package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/zvrva/skyfare/config"
	"github.com/zvrva/skyfare/internal/domain"
	"github.com/zvrva/skyfare/internal/repository"
)

var flightsData = []domain.Flight{
	{FlightID: "FL001", Airline: "Air India", DepartureCity: "Mumbai", ArrivalCity: "Delhi", BasePrice: 2500},
	{FlightID: "FL002", Airline: "IndiGo", DepartureCity: "Delhi", ArrivalCity: "Bangalore", BasePrice: 2200},
	{FlightID: "FL003", Airline: "Vistara", DepartureCity: "Chennai", ArrivalCity: "Kolkata", BasePrice: 2800},
	{FlightID: "FL004", Airline: "SpiceJet", DepartureCity: "Hyderabad", ArrivalCity: "Mumbai", BasePrice: 2300},
	{FlightID: "FL005", Airline: "GoFirst", DepartureCity: "Bangalore", ArrivalCity: "Delhi", BasePrice: 2600},
	{FlightID: "FL006", Airline: "Air India", DepartureCity: "Kolkata", ArrivalCity: "Chennai", BasePrice: 2100},
	{FlightID: "FL007", Airline: "IndiGo", DepartureCity: "Mumbai", ArrivalCity: "Hyderabad", BasePrice: 2400},
	{FlightID: "FL008", Airline: "Vistara", DepartureCity: "Delhi", ArrivalCity: "Chennai", BasePrice: 2900},
	{FlightID: "FL009", Airline: "SpiceJet", DepartureCity: "Bangalore", ArrivalCity: "Kolkata", BasePrice: 2700},
	{FlightID: "FL010", Airline: "GoFirst", DepartureCity: "Chennai", ArrivalCity: "Mumbai", BasePrice: 3000},
	{FlightID: "FL011", Airline: "Air India", DepartureCity: "Hyderabad", ArrivalCity: "Delhi", BasePrice: 2200},
	{FlightID: "FL012", Airline: "IndiGo", DepartureCity: "Kolkata", ArrivalCity: "Bangalore", BasePrice: 2500},
	{FlightID: "FL013", Airline: "Vistara", DepartureCity: "Mumbai", ArrivalCity: "Chennai", BasePrice: 2300},
	{FlightID: "FL014", Airline: "SpiceJet", DepartureCity: "Delhi", ArrivalCity: "Hyderabad", BasePrice: 2600},
	{FlightID: "FL015", Airline: "GoFirst", DepartureCity: "Chennai", ArrivalCity: "Bangalore", BasePrice: 2800},
	{FlightID: "FL016", Airline: "Air India", DepartureCity: "Bangalore", ArrivalCity: "Mumbai", BasePrice: 2400},
	{FlightID: "FL017", Airline: "IndiGo", DepartureCity: "Hyderabad", ArrivalCity: "Kolkata", BasePrice: 2700},
	{FlightID: "FL018", Airline: "Vistara", DepartureCity: "Kolkata", ArrivalCity: "Delhi", BasePrice: 2900},
	{FlightID: "FL019", Airline: "SpiceJet", DepartureCity: "Mumbai", ArrivalCity: "Bangalore", BasePrice: 3000},
	{FlightID: "FL020", Airline: "GoFirst", DepartureCity: "Delhi", ArrivalCity: "Mumbai", BasePrice: 2000},
}

func main() {
	logger := logrus.New()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	repo := repository.NewFlightRepository(pool)
	for i := range flightsData {
		if err := repo.Upsert(ctx, &flightsData[i]); err != nil {
			logger.WithError(err).WithField("flight_id", flightsData[i].FlightID).Fatal("seed flight")
		}
	}
	logger.WithField("count", len(flightsData)).Info("seeded flights")
}
