package notify

import (
	"context"
	"esxi-stats/api/e"
	"esxi-stats/app/logging"
	"esxi-stats/app/utils"
	"esxi-stats/config"
	"esxi-stats/vsphere/protocol"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"
)

// Callbacker posts results to the request's URL, or to notify.callback when the request has none.
type Callbacker struct {
	Req    protocol.CallbackReq
	client *http.Client
}

func NewCallbacker(req protocol.CallbackReq) *Callbacker {
	return &Callbacker{
		Req: req,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Callbacker) CallbackObj(requestID string, data interface{}) {
	if data == nil {
		data = e.EmptyObject()
	}
	c.callback(requestID, data, nil)
}

func (c *Callbacker) CallbackArr(requestID string, data interface{}) {
	if data == nil {
		data = e.EmptyArray()
	}
	c.callback(requestID, data, nil)
}

func (c *Callbacker) CallbackErr(requestID string, data interface{}, err error) {
	c.callback(requestID, data, err)
}

func (c *Callbacker) Name() string { return "callback" }

// Send makes the callback a notification sink.
func (c *Callbacker) Send(ctx context.Context, n protocol.Notification) error {
	res := protocol.CallbackRes{
		RequestID: c.Req.RequestID,
		Code:      e.Success,
		Message:   n.Title,
		Data:      n,
	}
	if n.Outcome == protocol.OutcomeFailed || n.Outcome == protocol.OutcomeTimeout {
		res.Code = e.FAILED
	}
	return c.sendByHttp(ctx, res)
}

func (c *Callbacker) callback(requestID string, data interface{}, err error) {
	res := protocol.CallbackRes{
		RequestID: requestID,
		Data:      data,
	}

	if err != nil {
		res.Code = e.FAILED
		res.Message = err.Error()
	} else {
		res.Code = e.Success
	}
	_ = c.sendByHttp(context.Background(), res)
}

func (c *Callbacker) target() *protocol.Http {
	var def *protocol.Http
	if config.G.Notify.Callback != nil {
		def = config.G.Notify.Callback.HttpPost
	}
	cb := utils.NilNext(c.Req.HttpPost, def)
	if cb == nil {
		return nil
	}
	return cb.(*protocol.Http)
}

func (c *Callbacker) sendByHttp(ctx context.Context, res protocol.CallbackRes) error {
	httpCB := c.target()
	if httpCB == nil || httpCB.URL == "" {
		return nil
	}

	body := utils.ToJson(res)
	logging.L().Debugf("http callback:\nPOST %s \nHeaders: %s \nPayload: %s", httpCB.URL, httpCB.Headers, body)
	post, err := http.NewRequestWithContext(ctx, http.MethodPost, httpCB.URL, strings.NewReader(body))
	if err != nil {
		logging.L().Error("failed to build callback request ", err)
		return err
	}

	post.Header.Add("Content-Type", "application/json")
	for k, v := range httpCB.Headers {
		post.Header.Add(k, v)
	}
	resp, err := c.client.Do(post)
	if err != nil {
		logging.L().Errorf("callback request failed\n: POST %s\n %s\n %v", httpCB.URL, body, err)
		return err
	}
	defer resp.Body.Close()

	if logging.IsDebug() {
		rbody, _ := ioutil.ReadAll(resp.Body)
		logging.L().Debugf("callback response status: %d\nbody: %s", resp.StatusCode, string(rbody))
	}

	if resp.StatusCode > 399 {
		rbody, _ := ioutil.ReadAll(resp.Body)
		logging.L().Errorf("callback answered with an error\n: POST %s\n %s\nstatus: %d\nbody: %s",
			httpCB.URL, body, resp.StatusCode, string(rbody))
		return fmt.Errorf("callback %s answered %d", httpCB.URL, resp.StatusCode)
	}
	return nil
}
