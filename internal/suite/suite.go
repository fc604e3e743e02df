// Package suite holds the fixed MerelFormation smoke-test sequence.
package suite

import (
	"context"
	"fmt"
	"io"

	"pkt.systems/merelcheck/internal/runner"
	"pkt.systems/merelcheck/internal/surface"
	"pkt.systems/pslog"
)

// Banner is printed once before the first case.
const Banner = "Starting API tests for MerelFormation..."

// Cases returns the ordered suite. Every case is independent: later cases use
// the literal id 1 instead of anything created earlier in the run.
func Cases() []runner.Case {
	return []runner.Case{
		// Authentication
		{Method: "POST", Endpoint: "/api/login_check", Body: map[string]any{"username": "admin@example.com", "password": "password"}, Description: "Authentification"},

		// Admin dashboard
		{Method: "GET", Endpoint: "/admin/dashboard/stats", Description: "Admin Dashboard - Statistiques"},
		{Method: "GET", Endpoint: "/admin/dashboard/recent-inscriptions", Description: "Admin Dashboard - Inscriptions récentes"},
		{Method: "GET", Endpoint: "/admin/dashboard/recent-reservations", Description: "Admin Dashboard - Réservations récentes"},

		// Admin formations
		{Method: "GET", Endpoint: "/admin/formations", Description: "Admin Formations - Liste"},
		{Method: "GET", Endpoint: "/admin/formations/1", Description: "Admin Formations - Détail"},
		{Method: "POST", Endpoint: "/admin/formations", Body: map[string]any{"title": "Nouvelle formation", "description": "Description", "price": 100}, Description: "Admin Formations - Création"},
		{Method: "PUT", Endpoint: "/admin/formations/1", Body: map[string]any{"title": "Formation mise à jour", "description": "Nouvelle description", "price": 150}, Description: "Admin Formations - Mise à jour"},
		{Method: "DELETE", Endpoint: "/admin/formations/1", Description: "Admin Formations - Suppression"},
		{Method: "GET", Endpoint: "/admin/formations/sessions", Description: "Admin Formations - Sessions"},

		// Admin reservations
		{Method: "GET", Endpoint: "/admin/reservations", Description: "Admin Reservations - Liste"},
		{Method: "GET", Endpoint: "/admin/reservations/1", Description: "Admin Reservations - Détail"},
		{Method: "PUT", Endpoint: "/admin/reservations/1/status", Body: map[string]any{"status": "confirmed"}, Description: "Admin Reservations - Mise à jour statut"},
		{Method: "PUT", Endpoint: "/admin/reservations/1/assign-vehicle", Body: map[string]any{"vehicleId": 1}, Description: "Admin Reservations - Assignation véhicule"},
		{Method: "GET", Endpoint: "/admin/vehicles/available", Description: "Admin Reservations - Véhicules disponibles"},

		// Student dashboard
		{Method: "GET", Endpoint: "/student/dashboard", Description: "Student Dashboard - Index"},
		{Method: "GET", Endpoint: "/student/profile", Description: "Student Dashboard - Profil"},

		// Student formations
		{Method: "GET", Endpoint: "/student/formations", Description: "Student Formations - Liste"},
		{Method: "GET", Endpoint: "/student/formations/1", Description: "Student Formations - Détail"},

		// Student documents
		{Method: "GET", Endpoint: "/student/documents", Description: "Student Documents - Liste"},
		{Method: "GET", Endpoint: "/student/documents/1", Description: "Student Documents - Détail"},
		{Method: "GET", Endpoint: "/student/documents/1/download", Description: "Student Documents - Téléchargement"},
	}
}

// Run prints the banner and invokes every case in order, returning how many
// passed. The surface is only consulted for diagnostics and may be nil.
func Run(ctx context.Context, t runner.Tester, api *surface.Surface, w io.Writer, log pslog.Base) int {
	if w == nil {
		w = io.Discard
	}
	fmt.Fprintln(w, Banner)
	passed := 0
	for i, c := range Cases() {
		if log != nil {
			if op, ok := api.Lookup(c.Method, c.Endpoint); ok {
				log.Debug("suite.case", "seq", i+1, "operation", op.ID, "public", op.Public)
			} else {
				log.Debug("suite.undocumented", "seq", i+1, "method", c.Method, "endpoint", c.Endpoint)
			}
		}
		if t.Invoke(ctx, c) {
			passed++
		}
	}
	return passed
}
