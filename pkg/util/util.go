// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"github.com/pingcap/errors"
	"github.com/pingcap/uniqstr/pkg/util/logutil"
	"go.uber.org/zap"
)

// GetRecoverError gets the error from recover.
func GetRecoverError(r any) error {
	if err, ok := r.(error); ok {
		// Runtime panic also implements error interface.
		// So do not forget to add stack info for it.
		return errors.Trace(err)
	}
	return errors.Errorf("%v", r)
}

// ProcessPanicAndLog converts a recovered value into an error, logs it with the
// current stack and hands the error to processError.
func ProcessPanicAndLog(processError func(error), r any) {
	err := GetRecoverError(r)
	processError(err)
	logutil.BgLogger().Error("worker panicked", zap.Error(err), zap.Stack("stack"))
}
