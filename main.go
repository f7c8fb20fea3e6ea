package main

import (
	"fmt"
	"time"

	"github.com/meenmo/fxlib/calendar"
	"github.com/meenmo/fxlib/curve"
	"github.com/meenmo/fxlib/fx"
	"github.com/meenmo/fxlib/marketdata"
	"github.com/meenmo/fxlib/utils"
)

func main() {
	valuationDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	rec, err := marketdata.ParseRateRec("USD/EUR", "0.9103736341", []marketdata.QuoteRow{
		{Tenor: "1W", Points: "-4.051701"},
		{Tenor: "1M", Points: "-17.5"},
		{Tenor: "3M", Points: "-52.3"},
		{Tenor: "6M", Points: "-104.7"},
		{Tenor: "1Y", Points: "-205.9"},
	})
	if err != nil {
		panic(err)
	}

	terms := fx.NewFxTerms(utils.Act360, calendar.JointTARGETUS, calendar.Following, 2)
	pointCurve, err := marketdata.BuildForwardPointCurve(valuationDate, rec, terms.DayCount, terms.Calendar)
	if err != nil {
		panic(err)
	}
	spot, err := rec.SpotExchangeRate()
	if err != nil {
		panic(err)
	}

	usdCurve := curve.NewFlatZeroCurve(valuationDate, 0.015)
	eurCurve := curve.NewFlatZeroCurve(valuationDate, -0.005)

	deliveryDate := calendar.AdjustFollowing(terms.Calendar, valuationDate.AddDate(0, 0, 5))
	contract, err := fx.NewForeignExchangeForwardWithTerms(deliveryDate,
		fx.NewMoney(12925000, fx.USD),
		fx.NewExchangeRate(fx.USD, fx.EUR, 0.897487215294618),
		fx.SellBaseBuyTermForward, terms)
	if err != nil {
		panic(err)
	}
	contract.SetPricingEngine(fx.NewForwardPointsEngine(spot, pointCurve, usdCurve, eurCurve))

	points, err := contract.FairForwardPoints()
	if err != nil {
		panic(err)
	}
	baseValue, err := contract.PresentNetValueBase()
	if err != nil {
		panic(err)
	}
	termValue, err := contract.PresentNetValueTerm()
	if err != nil {
		panic(err)
	}
	grossBase, err := contract.ForwardGrossValueBase()
	if err != nil {
		panic(err)
	}

	fmt.Printf("Contract:            %s\n", contract)
	fmt.Printf("Fair forward points: %.6f\n", points)
	fmt.Printf("PV (base leg):       %s\n", baseValue)
	fmt.Printf("PV (term leg):       %s\n", termValue)
	fmt.Printf("Gross fwd (base):    %s\n", grossBase)
}
