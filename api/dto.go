/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model (decimal-based, immutable summaries) from the
  external API contract (plain JSON numbers). Decimals convert to float64
  only here, at the very edge, after every total is already finite.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - groups: The internal raw-group shape these convert into
*/
package api

import (
	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/groups"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ScheduleDTO mirrors the scheduling slice of a raw group.
type ScheduleDTO struct {
	DateStart string `json:"dateStart"` // "2006-01-02"
	DateEnd   string `json:"dateEnd"`
	TimeStart string `json:"timeStart"` // "06:00"
	TimeEnd   string `json:"timeEnd"`
	Task      string `json:"task"`
	TariffID  string `json:"tariffId"`
}

// TariffDetailsDTO mirrors the tariff slice of a raw group.
type TariffDetailsDTO struct {
	CostCenter        string             `json:"costCenter"`
	FacturationUnit   string             `json:"facturationUnit"`
	UnitOfMeasure     string             `json:"unitOfMeasure"`
	Multipliers       map[string]float64 `json:"multipliers"`
	PaysheetTariff    float64            `json:"paysheetTariff"`
	FacturationTariff float64            `json:"facturationTariff"`
	AgreedHours       float64            `json:"agreedHours"`

	FullTariff             string `json:"fullTariff"`
	Compensatory           string `json:"compensatory"`
	GroupTariff            string `json:"groupTariff"`
	AlternativePaidService string `json:"alternativePaidService"`
	SettlePayment          string `json:"settlePayment"`
}

// RawGroupDTO is one scheduling + tariff join row as the scheduling layer
// posts it.
type RawGroupDTO struct {
	ID            string           `json:"id"`
	Site          string           `json:"site"`
	SubSite       string           `json:"subSite"`
	Workers       []string         `json:"workers"`
	Schedule      ScheduleDTO      `json:"schedule"`
	TariffDetails TariffDetailsDTO `json:"tariffDetails"`
}

// CalculateRequest is the batch calculation request body.
type CalculateRequest struct {
	Operation       string                        `json:"operation"`
	DateStart       string                        `json:"dateStart"`
	DateEnd         string                        `json:"dateEnd"`
	Groups          []RawGroupDTO                 `json:"groups"`
	Distributions   map[string]map[string]float64 `json:"distributions"`
	AdditionalHours map[string]map[string]float64 `json:"additionalHours"`
}

// SettingRequest updates one named configuration value.
type SettingRequest struct {
	Value string `json:"value"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type HourDetailDTO struct {
	Hours           float64 `json:"hours"`
	Multiplier      float64 `json:"multiplier"`
	Amount          float64 `json:"amount"`
	CalculationType string  `json:"calculationType,omitempty"`
	WeeklyLimit     float64 `json:"weeklyLimit,omitempty"`
	DailyLimit      float64 `json:"dailyLimit,omitempty"`
}

type DetailsDTO struct {
	WorkerCount int                      `json:"workerCount"`
	Tariff      float64                  `json:"tariff"`
	HoursDetail map[string]HourDetailDTO `json:"hoursDetail"`
}

type BreakdownDTO struct {
	BaseAmount            float64    `json:"baseAmount"`
	AdditionalHoursAmount float64    `json:"additionalHoursAmount"`
	HolidayAmount         float64    `json:"holidayAmount"`
	CompensatoryAmount    float64    `json:"compensatoryAmount"`
	TotalAmount           float64    `json:"totalAmount"`
	Details               DetailsDTO `json:"details"`
}

type GroupResultDTO struct {
	GroupID     string       `json:"groupId"`
	Task        string       `json:"task"`
	WorkerCount int          `json:"workerCount"`
	Payroll     BreakdownDTO `json:"payroll"`
	Billing     BreakdownDTO `json:"billing"`
}

type BatchResultDTO struct {
	RunID        string           `json:"runId"`
	TotalPayroll float64          `json:"totalPayroll"`
	TotalBilling float64          `json:"totalBilling"`
	GroupResults []GroupResultDTO `json:"groupResults"`
}

type SettingDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// =============================================================================
// CONVERSION
// =============================================================================

// toRawGroup converts one DTO into the internal raw-group shape. An
// unparsable schedule date is a caller error for that group.
func toRawGroup(dto RawGroupDTO) (groups.RawGroup, error) {
	dateStart, err := calendar.ParseDay(dto.Schedule.DateStart)
	if err != nil {
		return groups.RawGroup{}, err
	}
	dateEnd, err := calendar.ParseDay(dto.Schedule.DateEnd)
	if err != nil {
		return groups.RawGroup{}, err
	}

	return groups.RawGroup{
		ID:      dto.ID,
		Site:    dto.Site,
		SubSite: dto.SubSite,
		Workers: dto.Workers,
		Schedule: groups.Schedule{
			DateStart: dateStart,
			DateEnd:   dateEnd,
			TimeStart: dto.Schedule.TimeStart,
			TimeEnd:   dto.Schedule.TimeEnd,
			Task:      dto.Schedule.Task,
			TariffID:  dto.Schedule.TariffID,
		},
		Tariff: groups.TariffDetails{
			CostCenter:        dto.TariffDetails.CostCenter,
			FacturationUnit:   dto.TariffDetails.FacturationUnit,
			UnitOfMeasure:     dto.TariffDetails.UnitOfMeasure,
			Multipliers:       dto.TariffDetails.Multipliers,
			PaysheetTariff:    dto.TariffDetails.PaysheetTariff,
			FacturationTariff: dto.TariffDetails.FacturationTariff,
			AgreedHours:       dto.TariffDetails.AgreedHours,

			FullTariff:             groups.Flag(dto.TariffDetails.FullTariff),
			Compensatory:           groups.Flag(dto.TariffDetails.Compensatory),
			GroupTariff:            groups.Flag(dto.TariffDetails.GroupTariff),
			AlternativePaidService: groups.Flag(dto.TariffDetails.AlternativePaidService),
			SettlePayment:          groups.Flag(dto.TariffDetails.SettlePayment),
		},
	}, nil
}

func toBatchResultDTO(result payroll.BatchResult) BatchResultDTO {
	dto := BatchResultDTO{
		RunID:        result.RunID,
		TotalPayroll: result.TotalPayroll.InexactFloat64(),
		TotalBilling: result.TotalBilling.InexactFloat64(),
		GroupResults: make([]GroupResultDTO, 0, len(result.GroupResults)),
	}
	for _, gr := range result.GroupResults {
		dto.GroupResults = append(dto.GroupResults, GroupResultDTO{
			GroupID:     gr.GroupID,
			Task:        gr.Task,
			WorkerCount: gr.WorkerCount,
			Payroll:     toBreakdownDTO(gr.Payroll),
			Billing:     toBreakdownDTO(gr.Billing),
		})
	}
	return dto
}

func toBreakdownDTO(b payroll.Breakdown) BreakdownDTO {
	details := DetailsDTO{
		WorkerCount: b.Details.WorkerCount,
		Tariff:      b.Details.Tariff.InexactFloat64(),
		HoursDetail: make(map[string]HourDetailDTO, len(b.Details.Hours)),
	}
	for code, d := range b.Details.Hours {
		details.HoursDetail[code] = HourDetailDTO{
			Hours:           d.Hours.InexactFloat64(),
			Multiplier:      d.Multiplier.InexactFloat64(),
			Amount:          d.Amount.InexactFloat64(),
			CalculationType: d.CalculationType,
			WeeklyLimit:     d.WeeklyLimit.InexactFloat64(),
			DailyLimit:      d.DailyLimit.InexactFloat64(),
		}
	}
	return BreakdownDTO{
		BaseAmount:            b.BaseAmount.InexactFloat64(),
		AdditionalHoursAmount: b.AdditionalHoursAmount.InexactFloat64(),
		HolidayAmount:         b.HolidayAmount.InexactFloat64(),
		CompensatoryAmount:    b.CompensatoryAmount.InexactFloat64(),
		TotalAmount:           b.TotalAmount.InexactFloat64(),
		Details:               details,
	}
}
