// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settingsrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carpool/pkg/core/model"
)

type estimatorPatch struct {
	AverageSpeed *float64 `json:"average_speed" binding:"omitempty,gt=0"`
	CostPerKm    *float64 `json:"cost_per_km" binding:"omitempty,gte=0"`
	CurrencyRate *float64 `json:"currency_rate" binding:"omitempty,gt=0"`
}

type settingsPatch struct {
	Estimator estimatorPatch `json:"estimator"`
}

// DserUpdateSettingsReq binds a partial settings document and applies
// it on the currently effective settings. Absent fields keep their
// current values.
func (rs *resource) DserUpdateSettingsReq(
	c *gin.Context,
) (*model.Settings, bool) {
	req := &settingsPatch{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	vs, _, _ := rs.app.Settings()
	s := &model.Settings{VisibleSettings: model.VisibleSettings{
		Estimator: vs.Estimator,
	}}
	e, pe := &s.Estimator, &req.Estimator
	if pe.AverageSpeed != nil {
		e.AverageSpeed = pe.AverageSpeed
	}
	if pe.CostPerKm != nil {
		e.CostPerKm = pe.CostPerKm
	}
	if pe.CurrencyRate != nil {
		e.CurrencyRate = pe.CurrencyRate
	}
	return s, true
}

// SettingsResp publishes three fields in order to be serialized as
// JSON fields and reported to the frontend as follows:
//  1. The settings field for reporting of visible settings which may
//     be mutable or immutable,
//  2. The min_bounds field for reporting the minimum acceptable value
//     for settings, all settings including the invisible items but
//     excluding those settings which do not have a known lower bound,
//  3. The max_bounds field for reporting the maximum acceptable value
//     for settings, all settings including the invisible items but
//     excluding those settings which do not have a known upper bound.
type SettingsResp struct {
	Settings  *model.VisibleSettings `json:"settings"`
	MinBounds *model.Settings        `json:"min_bounds"`
	MaxBounds *model.Settings        `json:"max_bounds"`
}
