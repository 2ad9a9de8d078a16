package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amonks/taskmaster/roster"
	"github.com/amonks/taskmaster/task"
	"github.com/spf13/cobra"
)

// requestFlags describes a task on the command line.
type requestFlags struct {
	description string
	category    string
	stops       []string
	hours       float64
	fuel        string
	quantity    float64
	packageSize string
	notes       string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.description, "description", "d", "", "Task description")
	flags.StringVarP(&f.category, "category", "c", "", "Task category (fuel, queue, pickup, general); classified from the description when empty")
	flags.StringArrayVarP(&f.stops, "stop", "s", nil, "Stop as a place name or lat,lng[,address] (repeatable, in order)")
	flags.Float64Var(&f.hours, "hours", 0, "Estimated hours for queue and general tasks")
	flags.StringVar(&f.fuel, "fuel", string(task.FuelPetrol), "Fuel type (petrol, diesel)")
	flags.Float64Var(&f.quantity, "quantity", 5, "Fuel quantity in litres")
	flags.StringVar(&f.packageSize, "package", string(task.PackageSmall), "Package size (small, medium, large)")
	flags.StringVar(&f.notes, "notes", "", "Special instructions")
	addRequestFlagAliases(cmd)
}

type taskRequest struct {
	description string
	category    task.Category
	locations   []task.Location
	details     task.Details
}

func (f *requestFlags) build(args []string) (taskRequest, error) {
	description, err := descriptionFromArgs(f.description, args)
	if err != nil {
		return taskRequest{}, err
	}

	category := task.Classify(description)
	if strings.TrimSpace(f.category) != "" {
		category, err = task.ParseCategory(f.category)
		if err != nil {
			return taskRequest{}, err
		}
	}

	locations := make([]task.Location, 0, len(f.stops))
	for i, value := range f.stops {
		location, err := parseStop(value, stopType(category, i))
		if err != nil {
			return taskRequest{}, fmt.Errorf("stop %d: %w", i+1, err)
		}
		locations = append(locations, location)
	}

	return taskRequest{
		description: description,
		category:    category,
		locations:   locations,
		details:     f.details(category, description, len(locations)),
	}, nil
}

func (f *requestFlags) details(category task.Category, description string, stops int) task.Details {
	switch category {
	case task.CategoryFuelDelivery:
		return task.FuelDelivery{
			FuelType:       task.FuelKind(strings.ToLower(strings.TrimSpace(f.fuel))),
			Quantity:       f.quantity,
			TimePreference: task.TimeASAP,
		}
	case task.CategoryQueueStanding:
		return task.QueueStanding{
			EstimatedHours:         f.hours,
			TaskDescription:        description,
			AdditionalInstructions: f.notes,
		}
	case task.CategoryPickupDelivery:
		arity := task.AritySingle
		switch {
		case stops == 2:
			arity = task.ArityTwo
		case stops > 2:
			arity = task.ArityMultiple
		}
		return task.PickupDelivery{
			LocationType:        arity,
			PackageSize:         task.PackageSize(strings.ToLower(strings.TrimSpace(f.packageSize))),
			SpecialInstructions: f.notes,
		}
	default:
		return task.GeneralTask{
			EstimatedDuration:      f.hours,
			DetailedDescription:    description,
			NeedsMultipleLocations: stops > 1,
		}
	}
}

func stopType(category task.Category, index int) task.LocationType {
	if category != task.CategoryPickupDelivery {
		return task.LocationGeneral
	}
	if index == 0 {
		return task.LocationPickup
	}
	return task.LocationDropoff
}

// parseStop accepts a place name from the sample places or "lat,lng" with an
// optional trailing address.
func parseStop(value string, kind task.LocationType) (task.Location, error) {
	parts := strings.SplitN(value, ",", 3)
	if len(parts) >= 2 {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if latErr == nil && lngErr == nil {
			address := fmt.Sprintf("%.5f,%.5f", lat, lng)
			if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
				address = strings.TrimSpace(parts[2])
			}
			location := task.NewLocation(address, lat, lng, kind)
			if err := task.ValidateLocation(location); err != nil {
				return task.Location{}, err
			}
			return location, nil
		}
	}
	place, err := roster.FindPlace(value)
	if err != nil {
		return task.Location{}, err
	}
	return place.Location(kind), nil
}
