// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.
package arch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointerWidth(t *testing.T) {
	assert.Equal(t, 64, Long64.PointerWidth())
	assert.Equal(t, 32, Legacy32.PointerWidth())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "long64", Long64.String())
	assert.Equal(t, "legacy32", Legacy32.String())
}
