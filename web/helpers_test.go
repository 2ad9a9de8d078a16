package web

import (
	"github.com/amonks/taskmaster/pricing"
	"github.com/amonks/taskmaster/task"
)

func pricingWithServiceFee(fee int) pricing.Calculator {
	rates := pricing.DefaultRates()
	rate := rates[task.CategoryFuelDelivery]
	rate.ServiceFee = fee
	rates[task.CategoryFuelDelivery] = rate
	return pricing.Calculator{Rates: rates}
}
