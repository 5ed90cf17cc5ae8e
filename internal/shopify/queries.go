package shopify

// Field and reference fragments shared by the content queries. References
// resolve to media images, generic files, or linked metaobjects; linked
// objects carry their own fields one level deep so name lookups can
// dereference them.
const fragmentFields = `
fragment FieldParts on MetaobjectField {
  key
  type
  value
  reference {
    __typename
    ... on MediaImage {
      image { url width height altText }
    }
    ... on GenericFile {
      url
    }
    ... on Metaobject {
      handle
      fields {
        key
        type
        value
        reference {
          __typename
          ... on MediaImage {
            image { url width height altText }
          }
          ... on GenericFile {
            url
          }
        }
      }
    }
  }
}
`

const queryMetaobjects = fragmentFields + `
query Metaobjects($type: String!, $first: Int!) {
  metaobjects(type: $type, first: $first) {
    nodes {
      id
      handle
      type
      fields { ...FieldParts }
    }
    pageInfo { hasNextPage endCursor }
  }
}
`

const queryMetaobjectByHandle = fragmentFields + `
query MetaobjectByHandle($handle: MetaobjectHandleInput!) {
  metaobject(handle: $handle) {
    id
    handle
    type
    fields { ...FieldParts }
  }
}
`

// Artwork metafield identifiers read off every product. Authors use the
// custom namespace throughout.
const fragmentArtworkProduct = `
fragment ArtworkProduct on Product {
  id
  handle
  title
  availableForSale
  onlineStoreUrl
  updatedAt
  featuredImage { url width height altText }
  priceRange {
    minVariantPrice { amount currencyCode }
  }
  variants(first: 1) {
    nodes {
      id
      availableForSale
      price { amount currencyCode }
    }
  }
  metafields(identifiers: [
    {namespace: "custom", key: "artist"},
    {namespace: "custom", key: "year"},
    {namespace: "custom", key: "medium"},
    {namespace: "custom", key: "status"},
    {namespace: "custom", key: "sold"},
    {namespace: "custom", key: "width"},
    {namespace: "custom", key: "height"},
    {namespace: "custom", key: "depth"}
  ]) {
    key
    type
    value
    reference {
      __typename
      ... on MediaImage {
        image { url width height altText }
      }
      ... on Metaobject {
        handle
        fields { key type value }
      }
    }
  }
}
`

const queryCollectionProducts = fragmentArtworkProduct + `
query CollectionProducts($handle: String!, $first: Int!) {
  collection(handle: $handle) {
    products(first: $first) {
      nodes { ...ArtworkProduct }
      pageInfo { hasNextPage endCursor }
    }
  }
}
`

const queryProductByHandle = fragmentArtworkProduct + `
query ProductByHandle($handle: String!) {
  product(handle: $handle) {
    ...ArtworkProduct
  }
}
`

const queryProducts = fragmentArtworkProduct + `
query Products($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    nodes { ...ArtworkProduct }
    pageInfo { hasNextPage endCursor }
  }
}
`

// Cart fragment shared by every cart operation. Line merchandise carries the
// artist metafield so cart rendering can show attribution without a second
// round trip.
const fragmentCart = `
fragment CartParts on Cart {
  id
  checkoutUrl
  totalQuantity
  cost {
    subtotalAmount { amount currencyCode }
  }
  lines(first: 50) {
    nodes {
      id
      quantity
      merchandise {
        ... on ProductVariant {
          id
          title
          price { amount currencyCode }
          image { url width height altText }
          product {
            title
            handle
            metafields(identifiers: [{namespace: "custom", key: "artist"}]) {
              key
              type
              value
              reference {
                __typename
                ... on Metaobject {
                  handle
                  fields { key type value }
                }
              }
            }
          }
        }
      }
    }
  }
}
`

const queryCart = fragmentCart + `
query Cart($id: ID!) {
  cart(id: $id) {
    ...CartParts
  }
}
`

const mutationCartCreate = fragmentCart + `
mutation CartCreate {
  cartCreate {
    cart { ...CartParts }
    userErrors { field message }
  }
}
`

const mutationCartLinesAdd = fragmentCart + `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart { ...CartParts }
    userErrors { field message }
  }
}
`

const mutationCartLinesUpdate = fragmentCart + `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart { ...CartParts }
    userErrors { field message }
  }
}
`

const mutationCartLinesRemove = fragmentCart + `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart { ...CartParts }
    userErrors { field message }
  }
}
`
