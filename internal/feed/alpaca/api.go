package alpaca

import (
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

type marketDataApi struct {
	client *marketdata.Client
}

func newAlpacaApi(apiKey string, secret string, baseUrl string) *marketDataApi {
	return &marketDataApi{
		client: marketdata.NewClient(marketdata.ClientOpts{
			BaseURL:   baseUrl,
			APIKey:    apiKey,
			APISecret: secret,
		}),
	}
}

func (a *marketDataApi) GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	return a.client.GetBars(symbol, req)
}
