package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg           *prometheus.Registry
	Checkouts     prometheus.Counter
	Orders        prometheus.Counter
	Pickups       prometheus.Counter
	Refunds       prometheus.Counter
	InventoryOps  prometheus.Counter
	ShiftOpens    prometheus.Counter
	ShiftCloses   prometheus.Counter
	OpenShift     prometheus.Gauge
	SalesCents    prometheus.Counter
	RefundedCents prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	checkouts := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_checkouts_total"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_orders_total"})
	pickups := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_order_pickups_total"})
	refunds := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_refunds_total"})
	inventoryOps := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_inventory_ops_total"})
	shiftOpens := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_shift_opens_total"})
	shiftCloses := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_shift_closes_total"})
	openShift := prometheus.NewGauge(prometheus.GaugeOpts{Name: "pos_shift_open"})
	salesCents := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_sales_cents_total"})
	refundedCents := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_refunded_cents_total"})

	r.MustRegister(checkouts, orders, pickups, refunds, inventoryOps, shiftOpens, shiftCloses, openShift, salesCents, refundedCents)
	return &Registry{
		reg:           r,
		Checkouts:     checkouts,
		Orders:        orders,
		Pickups:       pickups,
		Refunds:       refunds,
		InventoryOps:  inventoryOps,
		ShiftOpens:    shiftOpens,
		ShiftCloses:   shiftCloses,
		OpenShift:     openShift,
		SalesCents:    salesCents,
		RefundedCents: refundedCents,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
