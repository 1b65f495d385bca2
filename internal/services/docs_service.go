package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"ferry-backend/internal/domain/models"
	"ferry-backend/internal/utils"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// DocsService renders the compiled manifest and per-passenger e-tickets
// as PDFs. Pure read-side: nothing here touches booking or ledger state.
type DocsService struct {
	Manifests ManifestService
	Bookings  BookingService
	RequestID string

	// Loaders are swappable for tests.
	ManifestLoader func(tripID int64) (models.Manifest, error)
	TicketLoader   func(number string) (eTicketData, error)
}

type eTicketData struct {
	TicketNumber string
	BookingRef   string
	FullName     string
	FareClass    string
	FareCents    int64
	Route        string
	TripDate     string
	TripTime     string
	VesselName   string
	Status       string
}

// GenerateManifest renders the trip manifest for printing and handover
// to the compliance authority.
func (s DocsService) GenerateManifest(tripID int64) ([]byte, string, error) {
	m, err := s.loadManifest(tripID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_manifest", fmt.Sprintf("trip_id=%d", tripID))
	return buildManifestPDF(m)
}

// GenerateETicket renders one passenger's ticket with a QR payload for
// gate scanning.
func (s DocsService) GenerateETicket(ticketNumber string) ([]byte, string, error) {
	data, err := s.loadTicket(ticketNumber)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", "number="+ticketNumber)
	return buildETicketPDF(data)
}

func (s DocsService) loadManifest(tripID int64) (models.Manifest, error) {
	if s.ManifestLoader != nil {
		return s.ManifestLoader(tripID)
	}
	return s.Manifests.Compile(tripID)
}

func (s DocsService) loadTicket(number string) (eTicketData, error) {
	if s.TicketLoader != nil {
		return s.TicketLoader(number)
	}
	var out eTicketData
	t, err := s.Bookings.Tickets.GetByNumber(number)
	if err != nil {
		return out, err
	}
	b, err := s.Bookings.Bookings.GetByID(t.BookingID)
	if err != nil {
		return out, err
	}
	trip, err := s.Bookings.Trips.GetByID(b.TripID)
	if err != nil {
		return out, err
	}
	out = eTicketData{
		TicketNumber: t.TicketNumber,
		BookingRef:   b.Reference,
		FullName:     "Walk-in passenger",
		FareClass:    "",
		Route:        trip.RouteOrigin + " -> " + trip.RouteDestination,
		TripDate:     trip.TripDate,
		TripTime:     trip.TripTime,
		VesselName:   trip.VesselName,
		Status:       string(t.Status),
	}
	if passengers, err := s.Bookings.Bookings.ListPassengers(b.ID); err == nil {
		for _, p := range passengers {
			if p.Index == t.PassengerIndex {
				out.FullName = p.FullName
				out.FareClass = string(p.FareClass)
				out.FareCents = p.FareCents
				break
			}
		}
	}
	return out, nil
}

func buildManifestPDF(m models.Manifest) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Passenger Manifest", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "PASSENGER MANIFEST")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Vessel: %s    Route: %s -> %s    Departure: %s %s",
		safe(m.VesselName, "-"), safe(m.RouteOrigin, "-"), safe(m.RouteDestination, "-"), m.TripDate, m.TripTime))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Compiled: "+m.CompiledAt.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	headers := []string{"#", "Ticket", "Booking", "Name", "Class", "Source", "Status"}
	widths := []float64{10, 30, 40, 80, 25, 25, 30}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range m.Rows {
		cells := []string{
			fmt.Sprintf("%d", row.Sequence),
			row.TicketNumber,
			row.BookingRef,
			row.FullName,
			string(row.FareClass),
			row.Source,
			string(row.Status),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Named passengers: %d    Unnamed walk-ins: %d    Total aboard: %d",
		m.NamedCount, m.WalkInUnnamedCount, m.TotalPassengers))
	pdf.Ln(6)

	if m.WalkInUnnamedCount > 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, fmt.Sprintf("WARNING: %d walk-in passenger(s) counted toward capacity without names on record. Reconcile before handover.", m.WalkInUnnamedCount), "", "", false)
	}
	if m.MultipleCaptains {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, fmt.Sprintf("DATA QUALITY: vessel has %d captains assigned.", m.CaptainCount), "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("MANIFEST_%d_%s.pdf", m.TripID, strings.ReplaceAll(m.TripDate, "-", ""))
	return buf.Bytes(), filename, nil
}

func buildETicketPDF(d eTicketData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FERRY E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket No   : %s", safe(d.TicketNumber, "-")),
		fmt.Sprintf("Booking Ref : %s", safe(d.BookingRef, "-")),
		fmt.Sprintf("Passenger   : %s", safe(d.FullName, "-")),
		fmt.Sprintf("Fare Class  : %s", safe(d.FareClass, "-")),
		fmt.Sprintf("Fare        : %s", utils.FormatCents(d.FareCents)),
		fmt.Sprintf("Vessel      : %s", safe(d.VesselName, "-")),
		fmt.Sprintf("Route       : %s", safe(d.Route, "-")),
		fmt.Sprintf("Departure   : %s %s", safe(d.TripDate, "-"), safe(d.TripTime, "-")),
		fmt.Sprintf("Status      : %s", safe(d.Status, "-")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	// QR payload scanned at the gate for check-in and boarding.
	qrPayload := fmt.Sprintf("%s|%s|%s %s", d.TicketNumber, d.BookingRef, d.TripDate, d.TripTime)
	if png, err := qrcode.Encode(qrPayload, qrcode.Medium, 256); err == nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("ticket-qr", 150, 30, 40, 40, false, opts, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This e-ticket is valid for one passenger. Present it at check-in and boarding. Issued "+time.Now().Format("2006-01-02 15:04")+".", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(d.TicketNumber))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
