package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "tidbok/internal/errors"
	"tidbok/internal/services"
)

// ReportHandler handles KPI report requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetEmployeeUtilization handles the monthly utilization report.
// @Summary     Employee utilization
// @Description Get an employee's capacity, debitable hours and utilization for a month
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int true "Employee ID"
// @Param       year  query int true "Target year"
// @Param       month query int true "Target month (1-12)"
// @Success     200 {object} services.UtilizationReport "Utilization report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Employee not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/utilization/{id} [get]
func (h *ReportHandler) GetEmployeeUtilization(c *gin.Context) {
	employeeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	year, month, err := parsePeriodQuery(c, "year", "month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.EmployeeUtilization(employeeID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetCustomerReport handles the per-customer actuals-vs-budget report.
// @Summary     Customer report
// @Description Get a customer's per-article actuals against budget for a month range
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id          path  int true "Customer ID"
// @Param       start_year  query int true "Range start year"
// @Param       start_month query int true "Range start month (1-12)"
// @Param       end_year    query int true "Range end year"
// @Param       end_month   query int true "Range end month (1-12)"
// @Success     200 {object} services.CustomerReport "Customer report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Customer not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/customers/{id} [get]
func (h *ReportHandler) GetCustomerReport(c *gin.Context) {
	customerID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	startYear, startMonth, err := parsePeriodQuery(c, "start_year", "start_month")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endYear, endMonth, err := parsePeriodQuery(c, "end_year", "end_month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.CustomerReport(customerID, startYear, startMonth, endYear, endMonth)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetFixedPriceAnalysis handles the fixed-price variance report.
// @Summary     Fixed-price analysis
// @Description Compare fixed-price work against the customer's agreed amount
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id          path  int true "Customer ID"
// @Param       start_year  query int true "Range start year"
// @Param       start_month query int true "Range start month (1-12)"
// @Param       end_year    query int true "Range end year"
// @Param       end_month   query int true "Range end month (1-12)"
// @Success     200 {object} services.FixedPriceReport "Fixed-price report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Customer not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/fixed-price/{id} [get]
func (h *ReportHandler) GetFixedPriceAnalysis(c *gin.Context) {
	customerID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	startYear, startMonth, err := parsePeriodQuery(c, "start_year", "start_month")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endYear, endMonth, err := parsePeriodQuery(c, "end_year", "end_month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.FixedPriceAnalysis(customerID, startYear, startMonth, endYear, endMonth)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetPortfolioOverview handles the portfolio rollup report.
// @Summary     Portfolio overview
// @Description Roll up actuals versus budget per customer across a month range
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       start_year   query int    true  "Range start year"
// @Param       start_month  query int    true  "Range start month (1-12)"
// @Param       end_year     query int    true  "Range end year"
// @Param       end_month    query int    true  "Range end month (1-12)"
// @Param       customer_ids query string false "Comma-separated customer IDs (default: all active)"
// @Success     200 {object} services.PortfolioReport "Portfolio report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/portfolio [get]
func (h *ReportHandler) GetPortfolioOverview(c *gin.Context) {
	startYear, startMonth, err := parsePeriodQuery(c, "start_year", "start_month")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endYear, endMonth, err := parsePeriodQuery(c, "end_year", "end_month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var customerIDs []uint
	if v := c.Query("customer_ids"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "customer_ids must be a comma-separated list of ids"))
				return
			}
			customerIDs = append(customerIDs, uint(id))
		}
	}

	report, err := h.reportService.PortfolioOverview(startYear, startMonth, endYear, endMonth, customerIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
