package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/rpaconsole/internal/domain/model"
)

func TestTaskJSON(t *testing.T) {
	convey.Convey("Given a task payload from the backend", t, func() {
		payload := `{
			"id": 12,
			"taskName": "open baidu",
			"description": "search for golang",
			"status": "DRAFT",
			"createUser": 1,
			"createTime": "2025-03-01T09:30:15.123",
			"updateTime": null,
			"configJson": "[{\"stepId\":1,\"action\":\"open_url\"}]"
		}`

		var task model.Task
		err := json.Unmarshal([]byte(payload), &task)

		convey.Convey("Then every field is bound", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(task.ID, convey.ShouldEqual, 12)
			convey.So(task.TaskName, convey.ShouldEqual, "open baidu")
			convey.So(task.Status, convey.ShouldEqual, "DRAFT")
			convey.So(task.CreateTime.Year(), convey.ShouldEqual, 2025)
			convey.So(task.CreateTime.Nanosecond(), convey.ShouldEqual, 123000000)
			convey.So(task.UpdateTime.IsZero(), convey.ShouldBeTrue)
		})

		convey.Convey("Then the embedded step list decodes", func() {
			steps, err := task.Steps()
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(steps), convey.ShouldEqual, 1)
			convey.So(steps[0].Action, convey.ShouldEqual, model.ActionOpenURL)
		})

		convey.Convey("Then a broken step list is reported", func() {
			task.ConfigJSON = "[{"
			_, err := task.Steps()
			convey.So(err, convey.ShouldNotBeNil)

			task.ConfigJSON = ""
			steps, err := task.Steps()
			convey.So(err, convey.ShouldBeNil)
			convey.So(steps, convey.ShouldBeEmpty)
		})
	})

	convey.Convey("Given a new task to save", t, func() {
		task := model.Task{TaskName: "t1"}

		raw, err := json.Marshal(task)

		convey.Convey("Then zero values are left out", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(raw), convey.ShouldEqual, `{"taskName":"t1"}`)
		})
	})
}

func TestStepJSON(t *testing.T) {
	convey.Convey("Given a step without the defaulted fields", t, func() {
		raw, err := json.Marshal(model.Step{StepID: 2, Action: model.ActionClick, Target: "#su"})

		convey.Convey("Then the backend defaults are not overridden", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(raw), convey.ShouldEqual, `{"stepId":2,"action":"click","target":"#su"}`)
		})
	})

	convey.Convey("Given a step with required=false", t, func() {
		no := false
		raw, _ := json.Marshal(model.Step{StepID: 3, Action: model.ActionWait, Required: &no})
		convey.So(string(raw), convey.ShouldContainSubstring, `"required":false`)
	})
}

func TestExecutionResult(t *testing.T) {
	convey.Convey("Given an execution result with a failing step", t, func() {
		payload := `{
			"success": false,
			"totalSteps": 3,
			"completedSteps": 1,
			"errorMessage": "element not found",
			"stepResults": [
				{"stepId": 1, "success": true, "message": "ok", "executionTimeMs": 120},
				{"stepId": 2, "success": false, "errorMessage": "timeout", "executionTimeMs": 5000}
			],
			"finalScreenshot": "aGVsbG8="
		}`

		var res model.ExecutionResult
		err := json.Unmarshal([]byte(payload), &res)

		convey.Convey("Then the failed steps are reported", func() {
			convey.So(err, convey.ShouldBeNil)
			failed := res.Failed()
			convey.So(len(failed), convey.ShouldEqual, 1)
			convey.So(failed[0].StepID, convey.ShouldEqual, 2)
			convey.So(failed[0].ErrorMessage, convey.ShouldEqual, "timeout")
		})

		convey.Convey("Then the screenshot bytes are decoded", func() {
			convey.So(string(res.FinalScreenshot), convey.ShouldEqual, "hello")
		})
	})
}

func TestStatsJSON(t *testing.T) {
	convey.Convey("Given execution stats", t, func() {
		var s model.ExecutionStats
		err := json.Unmarshal([]byte(`{"totalExecutions":4,"successCount":3,"failureCount":1,"successRate":75.0}`), &s)
		convey.So(err, convey.ShouldBeNil)
		convey.So(s.SuccessRate, convey.ShouldEqual, 75.0)
		convey.So(s.FailureCount, convey.ShouldEqual, 1)
	})

	convey.Convey("Given knowledge graph stats", t, func() {
		var s model.KnowledgeStats
		err := json.Unmarshal([]byte(`{"exceptionCases":5,"elementPatterns":9,"topSolutions":[{"errorType":"ElementNotFound","solution":"use fallback","successCount":4}]}`), &s)
		convey.So(err, convey.ShouldBeNil)
		convey.So(s.ElementPatterns, convey.ShouldEqual, 9)
		convey.So(s.TopSolutions[0].Solution, convey.ShouldEqual, "use fallback")
	})
}

func TestTimestamp(t *testing.T) {
	convey.Convey("Given the forms the backend may emit", t, func() {
		want := time.Date(2025, 3, 1, 9, 30, 15, 0, time.Local)

		cases := []struct {
			name string
			in   string
		}{
			{"zone-less ISO", `"2025-03-01T09:30:15"`},
			{"array", `[2025,3,1,9,30,15]`},
		}
		for _, tc := range cases {
			convey.Convey("When decoding the "+tc.name+" form", func() {
				var ts model.Timestamp
				err := json.Unmarshal([]byte(tc.in), &ts)
				convey.So(err, convey.ShouldBeNil)
				convey.So(ts.Equal(want), convey.ShouldBeTrue)
			})
		}

		convey.Convey("When decoding RFC 3339 with an offset", func() {
			var ts model.Timestamp
			err := json.Unmarshal([]byte(`"2025-03-01T09:30:15Z"`), &ts)
			convey.So(err, convey.ShouldBeNil)
			convey.So(ts.Equal(time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC)), convey.ShouldBeTrue)
		})

		convey.Convey("When decoding garbage", func() {
			var ts model.Timestamp
			convey.So(json.Unmarshal([]byte(`"yesterday"`), &ts), convey.ShouldNotBeNil)
			convey.So(json.Unmarshal([]byte(`[2025]`), &ts), convey.ShouldNotBeNil)
		})

		convey.Convey("When encoding", func() {
			raw, err := json.Marshal(model.Timestamp{Time: want})
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(raw), convey.ShouldEqual, `"2025-03-01T09:30:15"`)

			raw, _ = json.Marshal(model.Timestamp{})
			convey.So(string(raw), convey.ShouldEqual, "null")
		})
	})
}

func TestActions(t *testing.T) {
	convey.Convey("Given action names", t, func() {
		a, ok := model.ParseAction(" Open_URL ")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(a, convey.ShouldEqual, model.ActionOpenURL)

		_, ok = model.ParseAction("drag")
		convey.So(ok, convey.ShouldBeFalse)

		convey.So(model.ActionSubmit.Known(), convey.ShouldBeTrue)
		convey.So(model.Action("Click").Known(), convey.ShouldBeFalse)
		convey.So(len(model.Actions()), convey.ShouldEqual, 7)
	})
}
