package magento

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
)

// API bundles the per-resource sub-clients the sync operations consume.
// The HTTP client implements it; tests swap in an in-memory fake.
type API interface {
	Category() CategoryAPI
	Product() ProductAPI
	ProductImages() ProductImagesAPI
	ProductTypes() ProductTypesAPI
	ProductAttributeSet() ProductAttributeSetAPI
	ProductAttribute() ProductAttributeAPI
}

// CategoryAPI is the remote category resource. An empty storeView targets the
// default store.
type CategoryAPI interface {
	Tree(parentID uint) (*CategoryTree, error)
	Info(id uint, storeView string) (*CategoryRecord, error)
	Create(parentID uint, values CategoryValues, storeView string) (uint, error)
	Update(id uint, values CategoryValues, storeView string) error
}

// ProductAPI is the remote product resource. Info and Update accept either a
// numeric product id or a SKU, as the remote side does.
type ProductAPI interface {
	List(filter Filter) ([]ProductSummary, error)
	Info(idOrSKU string, storeView string) (*ProductRecord, error)
	Create(typeID, set, sku string, values ProductValues) (uint, error)
	Update(idOrSKU string, values ProductValues, storeView string) error
}

type ProductImagesAPI interface {
	List(idOrSKU string) ([]ImageRecord, error)
}

type ProductTypesAPI interface {
	List() ([]TypeRecord, error)
}

type ProductAttributeSetAPI interface {
	List() ([]AttributeSetRecord, error)
}

type ProductAttributeAPI interface {
	List(setID uint) ([]AttributeRecord, error)
	Options(attribute string) ([]OptionRecord, error)
}

// Client talks to a Magento API endpoint over JSON-RPC style POST calls.
type Client struct {
	uri      string
	username string
	password string
	http     *http.Client
}

// NewClient builds a client for one endpoint. The URI is the full API
// endpoint, e.g. https://shop.example.com/api/jsonrpc.
func NewClient(uri, username, password string) *Client {
	return &Client{
		uri:      uri,
		username: username,
		password: password,
		http:     &http.Client{Timeout: 120 * time.Second},
	}
}

type rpcRequest struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

type rpcResponse struct {
	Result interface{} `json:"result"`
	Error  string      `json:"error,omitempty"`
}

// call performs one remote call and decodes the result into out (a pointer).
// out may be nil when the result is not needed.
func (c *Client) call(method string, params []interface{}, out interface{}) error {
	body, err := json.Marshal(rpcRequest{Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("magento %s: encode: %w", method, err)
	}
	req, err := http.NewRequest(http.MethodPost, c.uri, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("magento %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("magento %s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("magento %s: HTTP %d", method, resp.StatusCode)
	}

	var rpc rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpc); err != nil {
		return fmt.Errorf("magento %s: decode: %w", method, err)
	}
	if rpc.Error != "" {
		return fmt.Errorf("magento %s: %s", method, rpc.Error)
	}
	if out == nil {
		return nil
	}
	return Decode(rpc.Result, out)
}

// Decode maps a loosely-typed remote payload onto a record struct.
// Weakly typed so "1" decodes into ints and numbers into strings.
func Decode(in, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func (c *Client) Category() CategoryAPI                     { return categoryClient{c} }
func (c *Client) Product() ProductAPI                       { return productClient{c} }
func (c *Client) ProductImages() ProductImagesAPI           { return imagesClient{c} }
func (c *Client) ProductTypes() ProductTypesAPI             { return typesClient{c} }
func (c *Client) ProductAttributeSet() ProductAttributeSetAPI { return attributeSetClient{c} }
func (c *Client) ProductAttribute() ProductAttributeAPI     { return attributeClient{c} }

// --- category ---

type categoryClient struct{ c *Client }

func (a categoryClient) Tree(parentID uint) (*CategoryTree, error) {
	var tree CategoryTree
	if err := a.c.call("catalog_category.tree", []interface{}{parentID}, &tree); err != nil {
		return nil, err
	}
	return &tree, nil
}

func (a categoryClient) Info(id uint, storeView string) (*CategoryRecord, error) {
	params := []interface{}{id}
	if storeView != "" {
		params = append(params, storeView)
	}
	var rec CategoryRecord
	if err := a.c.call("catalog_category.info", params, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (a categoryClient) Create(parentID uint, values CategoryValues, storeView string) (uint, error) {
	params := []interface{}{parentID, values}
	if storeView != "" {
		params = append(params, storeView)
	}
	var id uint
	if err := a.c.call("catalog_category.create", params, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (a categoryClient) Update(id uint, values CategoryValues, storeView string) error {
	params := []interface{}{id, values}
	if storeView != "" {
		params = append(params, storeView)
	}
	return a.c.call("catalog_category.update", params, nil)
}

// --- product ---

type productClient struct{ c *Client }

func (a productClient) List(filter Filter) ([]ProductSummary, error) {
	var list []ProductSummary
	if err := a.c.call("catalog_product.list", []interface{}{filter}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (a productClient) Info(idOrSKU string, storeView string) (*ProductRecord, error) {
	params := []interface{}{idOrSKU}
	if storeView != "" {
		params = append(params, storeView)
	}
	var rec ProductRecord
	if err := a.c.call("catalog_product.info", params, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (a productClient) Create(typeID, set, sku string, values ProductValues) (uint, error) {
	var id uint
	if err := a.c.call("catalog_product.create", []interface{}{typeID, set, sku, values}, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (a productClient) Update(idOrSKU string, values ProductValues, storeView string) error {
	params := []interface{}{idOrSKU, values}
	if storeView != "" {
		params = append(params, storeView)
	}
	return a.c.call("catalog_product.update", params, nil)
}

// --- images / types / attributes ---

type imagesClient struct{ c *Client }

func (a imagesClient) List(idOrSKU string) ([]ImageRecord, error) {
	var list []ImageRecord
	if err := a.c.call("catalog_product_attribute_media.list", []interface{}{idOrSKU}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

type typesClient struct{ c *Client }

func (a typesClient) List() ([]TypeRecord, error) {
	var list []TypeRecord
	if err := a.c.call("catalog_product_type.list", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

type attributeSetClient struct{ c *Client }

func (a attributeSetClient) List() ([]AttributeSetRecord, error) {
	var list []AttributeSetRecord
	if err := a.c.call("product_attribute_set.list", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

type attributeClient struct{ c *Client }

func (a attributeClient) List(setID uint) ([]AttributeRecord, error) {
	var list []AttributeRecord
	if err := a.c.call("product_attribute.list", []interface{}{setID}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (a attributeClient) Options(attribute string) ([]OptionRecord, error) {
	var list []OptionRecord
	if err := a.c.call("product_attribute.options", []interface{}{attribute}, &list); err != nil {
		return nil, err
	}
	return list, nil
}
